package hospital

import (
	"math/rand"

	"github.com/hospital-sim/hospital-sim/sim"
)

// ArrivalGenerator creates patients and owns the patient-id counter.
// Severity and symptom are drawn independently and uniformly.
type ArrivalGenerator struct {
	model  *Model
	gaps   *rand.Rand // inter-arrival times
	draws  *rand.Rand // severity and symptom
	nextID int
}

// NewArrivalGenerator creates a generator for m whose first patient gets id 1.
func NewArrivalGenerator(m *Model) *ArrivalGenerator {
	return &ArrivalGenerator{
		model:  m,
		gaps:   m.Sim.RNG.ForSubsystem(sim.SubsystemArrivals),
		draws:  m.Sim.RNG.ForSubsystem(sim.SubsystemPatients),
		nextID: 1,
	}
}

// NextPatient creates a patient arriving at now with a fresh id.
func (g *ArrivalGenerator) NextPatient(now sim.SimTime) *Patient {
	severity := AllSeverities[g.draws.Intn(len(AllSeverities))]
	symptom := AllSymptoms[g.draws.Intn(len(AllSymptoms))]
	pt := NewPatient(g.nextID, severity, symptom, now)
	g.nextID++
	return pt
}

// Issued returns how many patients the generator has created.
func (g *ArrivalGenerator) Issued() int {
	return g.nextID - 1
}

// Process returns the arrival loop: wait an exponential gap with the given
// mean, admit a new patient, repeat. It never returns on its own; the
// horizon truncates it.
func (g *ArrivalGenerator) Process(meanInterval float64) sim.ProcessFunc {
	return func(p *sim.Process) {
		for {
			p.Timeout(sim.Exponential(g.gaps, meanInterval))
			g.model.Admit(g.NextPatient(p.Now()))
		}
	}
}
