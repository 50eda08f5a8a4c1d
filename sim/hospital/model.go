package hospital

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/hospital-sim/hospital-sim/sim"
	"github.com/hospital-sim/hospital-sim/sim/trace"
)

// Observer is told about patients entering and leaving. Implementations that
// also satisfy sim.PoolObserver are attached to every hospital pool.
type Observer interface {
	PatientArrived(pt *Patient)
	PatientDischarged(pt *Patient)
}

// Option configures a Model.
type Option func(*Model)

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(m *Model) {
		m.observers = append(m.observers, o)
	}
}

// Model wires a simulator, a hospital and an event log together.
type Model struct {
	Config   Config
	Sim      *sim.Simulator
	Hospital *Hospital
	Log      *trace.EventLog
	Arrivals *ArrivalGenerator

	durations *rand.Rand
	observers []Observer
	patients  []*Patient
}

// Result is everything a run produces.
type Result struct {
	Scenario        string                `yaml:"scenario"`
	ArrivalInterval float64               `yaml:"arrival_interval"`
	Seed            int64                 `yaml:"seed"`
	EndTime         float64               `yaml:"end_time"`
	Summary         *trace.Summary        `yaml:"summary"`
	Pools           []sim.PoolStats       `yaml:"pools"`
	Records         []trace.PatientRecord `yaml:"records"`
	Entries         []trace.Entry         `yaml:"entries"`
}

// NewModel validates cfg and builds a model at time zero.
func NewModel(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := sim.NewSimulator(cfg.Seed)
	m := &Model{
		Config:    cfg,
		Sim:       s,
		Hospital:  NewHospital(s, cfg),
		Log:       trace.NewEventLog(),
		durations: s.RNG.ForSubsystem(sim.SubsystemDurations),
	}
	m.Arrivals = NewArrivalGenerator(m)

	for _, opt := range opts {
		opt(m)
	}
	for _, o := range m.observers {
		if po, ok := o.(sim.PoolObserver); ok {
			for _, rp := range m.Hospital.Pools() {
				rp.Observe(po)
			}
		}
	}
	return m, nil
}

// Admit records the patient's arrival and starts its journey immediately.
func (m *Model) Admit(pt *Patient) *sim.Process {
	m.patients = append(m.patients, pt)
	m.mark(pt, StageArrival)
	for _, o := range m.observers {
		o.PatientArrived(pt)
	}
	return m.Sim.Spawn(fmt.Sprintf("patient-%d", pt.ID), m.Journey(pt))
}

// StartArrivals spawns the arrival generator with the given mean interval.
func (m *Model) StartArrivals(meanInterval float64) *sim.Process {
	return m.Sim.Spawn("arrivals", m.Arrivals.Process(meanInterval))
}

// Patients returns every admitted patient, in admission order.
func (m *Model) Patients() []*Patient {
	return m.patients
}

// Run advances the simulation to until, collects the result and abandons
// every journey still in flight.
func (m *Model) Run(until sim.SimTime) *Result {
	m.Sim.Run(until)
	res := m.Result()
	m.Sim.Shutdown()
	return res
}

// Records returns one record per admitted patient: discharged patients in
// the order they left, then open records in admission order.
func (m *Model) Records() []trace.PatientRecord {
	discharged := m.Log.Discharged()
	records := make([]trace.PatientRecord, 0, len(m.patients))
	records = append(records, discharged...)
	for _, pt := range m.patients {
		if !pt.Discharged() {
			records = append(records, pt.Record())
		}
	}
	return records
}

// Result snapshots the model at the current virtual time.
func (m *Model) Result() *Result {
	records := m.Records()
	pools := make([]sim.PoolStats, 0, len(m.Hospital.Pools()))
	for _, rp := range m.Hospital.Pools() {
		pools = append(pools, rp.Stats())
	}
	return &Result{
		Seed:    m.Config.Seed,
		EndTime: float64(m.Sim.Now()),
		Summary: trace.Summarize(records, m.Log.Entries()),
		Pools:   pools,
		Records: records,
		Entries: m.Log.Entries(),
	}
}

// Simulate runs cfg's scenario with stochastic arrivals up to cfg.Horizon.
func Simulate(cfg Config, opts ...Option) (*Result, error) {
	m, err := NewModel(cfg, opts...)
	if err != nil {
		return nil, err
	}
	scenario, interval := cfg.ResolveScenario(cfg.Scenario)
	logrus.Infof("simulating scenario %q: mean arrival interval %.2f min, horizon %.0f min, seed %d",
		scenario, interval, cfg.Horizon, cfg.Seed)

	m.StartArrivals(interval)
	res := m.Run(sim.SimTime(cfg.Horizon))
	res.Scenario = scenario
	res.ArrivalInterval = interval
	return res, nil
}

// Record converts the patient into its exported row.
func (p *Patient) Record() trace.PatientRecord {
	r := trace.PatientRecord{
		PatientID:   p.ID,
		Symptom:     p.Symptom.String(),
		Severity:    p.Severity.String(),
		ArrivalTime: float64(p.ArrivalTime),
	}
	if t, ok := p.DepartureTime(); ok {
		dep := float64(t)
		r.DepartureTime = &dep
	}
	return r
}
