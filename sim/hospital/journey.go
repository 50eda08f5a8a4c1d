package hospital

import (
	"github.com/sirupsen/logrus"

	"github.com/hospital-sim/hospital-sim/sim"
)

// Stage labels recorded in the event log.
type Stage string

const (
	StageArrival             Stage = "Arrival"
	StageTriage              Stage = "Triage"
	StageEmergencyCare       Stage = "EmergencyCare"
	StageUrgentConsultation  Stage = "UrgentConsultation"
	StageGeneralConsultation Stage = "GeneralConsultation"
	StageDiagnosis           Stage = "Diagnosis"
	StageImaging             Stage = "Imaging"
	StageTreatment           Stage = "Treatment"
	StageSurgery             Stage = "Surgery"
	StageDischarge           Stage = "Discharge"
)

// Journey returns the process body for one patient:
//
//	Arrival → Triage → {EmergencyCare | UrgentConsultation | GeneralConsultation}
//	        → Diagnosis → Treatment → Discharge
//
// General consultation goes straight to discharge. Every stage acquires and
// releases its own resources, so nothing is held across stages.
func (m *Model) Journey(pt *Patient) sim.ProcessFunc {
	return func(p *sim.Process) {
		m.triage(p, pt)

		switch pt.Severity {
		case SeverityCritical:
			m.emergencyCare(p, pt)
		case SeveritySevere:
			m.urgentConsultation(p, pt)
		case SeverityMild:
			m.generalConsultation(p, pt)
			m.discharge(p, pt)
			return
		default:
			panic(sim.Violation("Journey", "patient %d has unknown severity %d", pt.ID, int(pt.Severity)))
		}

		m.diagnosis(p, pt)
		m.treatment(p, pt)
		m.discharge(p, pt)
	}
}

func (m *Model) triage(p *sim.Process, pt *Patient) {
	m.mark(pt, StageTriage)
	if !m.Config.Staff.TriageNurse {
		p.Timeout(m.draw(m.Config.Durations.Triage))
		return
	}
	p.Acquire(m.Hospital.Nurses)
	p.Timeout(m.draw(m.Config.Durations.Triage))
	p.Release(m.Hospital.Nurses)
}

func (m *Model) emergencyCare(p *sim.Process, pt *Patient) {
	m.mark(pt, StageEmergencyCare)
	p.Acquire(m.Hospital.EmergencyBeds)
	p.Acquire(m.Hospital.Doctors)
	p.Timeout(m.draw(m.Config.Durations.EmergencyCare))
	p.Release(m.Hospital.Doctors)
	p.Release(m.Hospital.EmergencyBeds)
}

func (m *Model) urgentConsultation(p *sim.Process, pt *Patient) {
	m.mark(pt, StageUrgentConsultation)
	p.Acquire(m.Hospital.Doctors)
	p.Acquire(m.Hospital.Nurses)
	p.Timeout(m.draw(m.Config.Durations.UrgentConsultation))
	p.Release(m.Hospital.Nurses)
	p.Release(m.Hospital.Doctors)
}

// generalConsultation waits in the waiting room until the specialty office
// for the symptom is free.
func (m *Model) generalConsultation(p *sim.Process, pt *Patient) {
	m.mark(pt, StageGeneralConsultation)
	office := m.Hospital.Office(pt.Symptom.Specialty())
	p.Acquire(m.Hospital.WaitingRoom)
	p.Acquire(office)
	p.Release(m.Hospital.WaitingRoom)
	p.Timeout(m.draw(m.Config.Durations.GeneralConsultation))
	p.Release(office)
}

func (m *Model) diagnosis(p *sim.Process, pt *Patient) {
	m.mark(pt, StageDiagnosis)
	if pt.Symptom.NeedsImaging() {
		m.mark(pt, StageImaging)
		p.Acquire(m.Hospital.XRay)
		p.Timeout(m.draw(m.Config.Durations.Imaging))
		p.Release(m.Hospital.XRay)
	}
	p.Timeout(m.draw(m.Config.Durations.Diagnosis))
}

func (m *Model) treatment(p *sim.Process, pt *Patient) {
	m.mark(pt, StageTreatment)
	if pt.Severity == SeverityCritical {
		m.mark(pt, StageSurgery)
		p.Acquire(m.Hospital.SurgeryRooms)
		p.Timeout(m.draw(m.Config.Durations.Surgery))
		p.Release(m.Hospital.SurgeryRooms)
		return
	}
	p.Timeout(m.draw(m.Config.Durations.Treatment))
}

func (m *Model) discharge(p *sim.Process, pt *Patient) {
	p.ReleaseAll()
	pt.setDeparture(p.Now())
	m.mark(pt, StageDischarge)
	m.Log.Discharge(pt.Record())
	for _, o := range m.observers {
		o.PatientDischarged(pt)
	}
}

func (m *Model) mark(pt *Patient, stage Stage) {
	now := m.Sim.Now()
	pt.path = append(pt.path, stage)
	m.Log.Record(pt.ID, string(stage), float64(now))
	logrus.Debugf("[t=%8.3f] patient %d (%s, %s): %s", now, pt.ID, pt.Severity, pt.Symptom, stage)
}

func (m *Model) draw(r Range) sim.SimTime {
	return sim.Uniform(m.durations, r.Min, r.Max)
}
