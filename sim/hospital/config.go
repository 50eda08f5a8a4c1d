package hospital

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario names understood by ResolveScenario.
const (
	ScenarioNormal        = "normal"
	ScenarioMassEmergency = "mass_emergency"
)

// Range is a closed interval of minutes for a uniformly drawn duration.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// StaffConfig counts the people that act as shared resources.
// TriageNurse makes triage hold a nurse for its duration; off by default,
// triage then only takes time.
type StaffConfig struct {
	Doctors     int  `yaml:"doctors"`
	Nurses      int  `yaml:"nurses"`
	TriageNurse bool `yaml:"triage_nurse"`
}

// CapacityConfig sizes the physical facilities.
type CapacityConfig struct {
	EmergencyBeds int `yaml:"emergency_beds"`
	WaitingRoom   int `yaml:"waiting_room"`
	XRayRooms     int `yaml:"xray_rooms"`
	SurgeryRooms  int `yaml:"surgery_rooms"`
}

// DurationConfig holds the service-time ranges of each stage, in minutes.
type DurationConfig struct {
	Triage              Range `yaml:"triage"`
	EmergencyCare       Range `yaml:"emergency_care"`
	UrgentConsultation  Range `yaml:"urgent_consultation"`
	GeneralConsultation Range `yaml:"general_consultation"`
	Imaging             Range `yaml:"imaging"`
	Diagnosis           Range `yaml:"diagnosis"`
	Surgery             Range `yaml:"surgery"`
	Treatment           Range `yaml:"treatment"`
}

// Config is the read-only input of a hospital run.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Seed             int64              `yaml:"seed"`
	Horizon          float64            `yaml:"horizon"` // virtual minutes
	Scenario         string             `yaml:"scenario"`
	Staff            StaffConfig        `yaml:"staff"`
	Capacities       CapacityConfig     `yaml:"capacities"`
	Offices          map[string]int     `yaml:"offices"`           // specialty → consultation rooms
	ArrivalIntervals map[string]float64 `yaml:"arrival_intervals"` // scenario → mean minutes between arrivals
	Durations        DurationConfig     `yaml:"durations"`
}

// DefaultConfig returns the reference eight-hour shift.
func DefaultConfig() Config {
	return Config{
		Seed:     42,
		Horizon:  480,
		Scenario: ScenarioNormal,
		Staff: StaffConfig{
			Doctors: 60,
			Nurses:  100,
		},
		Capacities: CapacityConfig{
			EmergencyBeds: 20,
			WaitingRoom:   80,
			XRayRooms:     4,
			SurgeryRooms:  10,
		},
		Offices: map[string]int{
			SpecialtyCardiologist.String():   1,
			SpecialtyPulmonologist.String():  1,
			SpecialtyTraumatologist.String(): 1,
			SpecialtyInternist.String():      1,
			SpecialtyOncologist.String():     1,
		},
		ArrivalIntervals: map[string]float64{
			ScenarioNormal:        5,
			ScenarioMassEmergency: 1,
		},
		Durations: DurationConfig{
			Triage:              Range{Min: 3, Max: 7},
			EmergencyCare:       Range{Min: 20, Max: 40},
			UrgentConsultation:  Range{Min: 15, Max: 30},
			GeneralConsultation: Range{Min: 10, Max: 20},
			Imaging:             Range{Min: 10, Max: 20},
			Diagnosis:           Range{Min: 10, Max: 20},
			Surgery:             Range{Min: 60, Max: 120},
			Treatment:           Range{Min: 10, Max: 30},
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes YAML into cfg with strict field checking (typos must
// cause errors). Fields absent from data keep their current values. Office
// names are matched case-insensitively and stored under their canonical
// spelling, overriding the current entry.
func DecodeConfig(data []byte, cfg *Config) error {
	current := cfg.Offices
	cfg.Offices = nil

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		cfg.Offices = current
		return err
	}

	offices, err := mergeOffices(current, cfg.Offices)
	cfg.Offices = offices
	return err
}

// mergeOffices overlays decoded on base, rewriting recognised specialty names
// to their canonical spelling. Unknown names are kept so Validate reports them.
func mergeOffices(base, decoded map[string]int) (map[string]int, error) {
	merged := make(map[string]int, len(base)+len(decoded))
	for name, n := range base {
		merged[name] = n
	}

	keys := make([]string, 0, len(decoded))
	for name := range decoded {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var errs []error
	seen := make(map[string]string, len(decoded))
	for _, name := range keys {
		canonical := name
		if sp, err := ParseSpecialty(name); err == nil {
			canonical = sp.String()
		}
		if prev, dup := seen[canonical]; dup {
			errs = append(errs, fmt.Errorf("offices: %q and %q both name %s", prev, name, canonical))
			continue
		}
		seen[canonical] = name
		merged[canonical] = decoded[name]
	}
	return merged, errors.Join(errs...)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports every problem found in the configuration.
func (c Config) Validate() error {
	var errs []error
	if !finite(c.Horizon) || c.Horizon <= 0 {
		errs = append(errs, fmt.Errorf("horizon must be positive and finite, got %v", c.Horizon))
	}

	positive := []struct {
		name  string
		value int
	}{
		{"staff.doctors", c.Staff.Doctors},
		{"staff.nurses", c.Staff.Nurses},
		{"capacities.emergency_beds", c.Capacities.EmergencyBeds},
		{"capacities.waiting_room", c.Capacities.WaitingRoom},
		{"capacities.xray_rooms", c.Capacities.XRayRooms},
		{"capacities.surgery_rooms", c.Capacities.SurgeryRooms},
	}
	for _, p := range positive {
		if p.value < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", p.name, p.value))
		}
	}

	for name, n := range c.Offices {
		if sp, err := ParseSpecialty(name); err != nil {
			errs = append(errs, fmt.Errorf("offices: %w", err))
		} else if name != sp.String() {
			errs = append(errs, fmt.Errorf("offices.%s: spell it %q", name, sp.String()))
		} else if n < 1 {
			errs = append(errs, fmt.Errorf("offices.%s must be at least 1, got %d", name, n))
		}
	}
	for _, sp := range AllSpecialties {
		if _, ok := c.Offices[sp.String()]; !ok {
			errs = append(errs, fmt.Errorf("offices.%s is missing", sp))
		}
	}

	if _, ok := c.ArrivalIntervals[ScenarioNormal]; !ok {
		errs = append(errs, fmt.Errorf("arrival_intervals.%s is missing", ScenarioNormal))
	}
	for name, mean := range c.ArrivalIntervals {
		if !finite(mean) || mean <= 0 {
			errs = append(errs, fmt.Errorf("arrival_intervals.%s must be positive and finite, got %v", name, mean))
		}
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"triage", c.Durations.Triage},
		{"emergency_care", c.Durations.EmergencyCare},
		{"urgent_consultation", c.Durations.UrgentConsultation},
		{"general_consultation", c.Durations.GeneralConsultation},
		{"imaging", c.Durations.Imaging},
		{"diagnosis", c.Durations.Diagnosis},
		{"surgery", c.Durations.Surgery},
		{"treatment", c.Durations.Treatment},
	}
	for _, d := range ranges {
		if !finite(d.r.Min) || !finite(d.r.Max) || d.r.Min < 0 || d.r.Max < d.r.Min {
			errs = append(errs, fmt.Errorf("durations.%s: need finite 0 <= min <= max, got [%v, %v]", d.name, d.r.Min, d.r.Max))
		}
	}
	return errors.Join(errs...)
}

// ResolveScenario returns the scenario name and mean arrival interval to use.
// Unknown names fall back to ScenarioNormal with a warning.
func (c Config) ResolveScenario(name string) (string, float64) {
	if mean, ok := c.ArrivalIntervals[name]; ok {
		return name, mean
	}
	logrus.Warnf("unknown scenario %q, using %q (known: %v)", name, ScenarioNormal, c.Scenarios())
	return ScenarioNormal, c.ArrivalIntervals[ScenarioNormal]
}

// Scenarios returns the configured scenario names, sorted.
func (c Config) Scenarios() []string {
	names := make([]string, 0, len(c.ArrivalIntervals))
	for name := range c.ArrivalIntervals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OfficeCapacity returns the number of consultation rooms for a specialty.
func (c Config) OfficeCapacity(sp Specialty) int {
	return c.Offices[sp.String()]
}
