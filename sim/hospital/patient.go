package hospital

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hospital-sim/hospital-sim/sim"
)

// Severity is the triage level assigned to a patient on arrival.
type Severity int

const (
	SeverityMild Severity = iota
	SeveritySevere
	SeverityCritical
)

// AllSeverities lists every severity, in declaration order.
var AllSeverities = []Severity{SeverityMild, SeveritySevere, SeverityCritical}

var severityNames = map[Severity]string{
	SeverityMild:     "Mild",
	SeveritySevere:   "Severe",
	SeverityCritical: "Critical",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity maps a label to a Severity. Unknown labels fall back to
// SeverityMild with a warning.
func ParseSeverity(label string) Severity {
	for sev, name := range severityNames {
		if strings.EqualFold(strings.TrimSpace(label), name) {
			return sev
		}
	}
	logrus.Warnf("unknown severity %q, using %s", label, SeverityMild)
	return SeverityMild
}

// MarshalYAML writes the label.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML reads a label, falling back like ParseSeverity.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var label string
	if err := value.Decode(&label); err != nil {
		return err
	}
	*s = ParseSeverity(label)
	return nil
}

// Symptom is the presenting complaint. It decides imaging and the specialty
// office a general consultation goes to.
type Symptom int

const (
	SymptomChestPain Symptom = iota
	SymptomFracture
	SymptomLump
	SymptomRespiratoryDifficulty
	SymptomSoreThroat
)

// AllSymptoms lists every symptom, in declaration order.
var AllSymptoms = []Symptom{
	SymptomChestPain,
	SymptomFracture,
	SymptomLump,
	SymptomRespiratoryDifficulty,
	SymptomSoreThroat,
}

var symptomNames = map[Symptom]string{
	SymptomChestPain:             "Chest Pain",
	SymptomFracture:              "Fracture",
	SymptomLump:                  "Lump",
	SymptomRespiratoryDifficulty: "Respiratory Difficulty",
	SymptomSoreThroat:            "Sore Throat",
}

// symptomAliases accepts labels seen in exported data sets.
var symptomAliases = map[string]Symptom{
	"chestpain":             SymptomChestPain,
	"respiratorydifficulty": SymptomRespiratoryDifficulty,
	"difficultybreathing":   SymptomRespiratoryDifficulty,
	"sorethroat":            SymptomSoreThroat,
}

func (s Symptom) String() string {
	if name, ok := symptomNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Symptom(%d)", int(s))
}

// ParseSymptom maps a label to a Symptom. Spacing, case and underscores are
// ignored. Unknown labels fall back to SymptomSoreThroat with a warning.
func ParseSymptom(label string) Symptom {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(label))
	for sym, name := range symptomNames {
		if key == strings.ToLower(strings.ReplaceAll(name, " ", "")) {
			return sym
		}
	}
	if sym, ok := symptomAliases[key]; ok {
		return sym
	}
	logrus.Warnf("unknown symptom %q, using %s", label, SymptomSoreThroat)
	return SymptomSoreThroat
}

// MarshalYAML writes the label.
func (s Symptom) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML reads a label, falling back like ParseSymptom.
func (s *Symptom) UnmarshalYAML(value *yaml.Node) error {
	var label string
	if err := value.Decode(&label); err != nil {
		return err
	}
	*s = ParseSymptom(label)
	return nil
}

// NeedsImaging reports whether diagnosis starts with an X-ray.
func (s Symptom) NeedsImaging() bool {
	switch s {
	case SymptomFracture, SymptomRespiratoryDifficulty:
		return true
	default:
		return false
	}
}

// Specialty returns the consultation office that handles the symptom.
func (s Symptom) Specialty() Specialty {
	switch s {
	case SymptomChestPain:
		return SpecialtyCardiologist
	case SymptomFracture:
		return SpecialtyTraumatologist
	case SymptomLump:
		return SpecialtyOncologist
	case SymptomRespiratoryDifficulty:
		return SpecialtyPulmonologist
	case SymptomSoreThroat:
		return SpecialtyInternist
	default:
		panic(sim.Violation("Specialty", "unknown symptom %d", int(s)))
	}
}

// Specialty is a doctor's office type.
type Specialty int

const (
	SpecialtyCardiologist Specialty = iota
	SpecialtyPulmonologist
	SpecialtyTraumatologist
	SpecialtyInternist
	SpecialtyOncologist
)

// AllSpecialties lists every specialty, in declaration order.
var AllSpecialties = []Specialty{
	SpecialtyCardiologist,
	SpecialtyPulmonologist,
	SpecialtyTraumatologist,
	SpecialtyInternist,
	SpecialtyOncologist,
}

var specialtyNames = map[Specialty]string{
	SpecialtyCardiologist:   "Cardiologist",
	SpecialtyPulmonologist:  "Pulmonologist",
	SpecialtyTraumatologist: "Traumatologist",
	SpecialtyInternist:      "Internist",
	SpecialtyOncologist:     "Oncologist",
}

func (s Specialty) String() string {
	if name, ok := specialtyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Specialty(%d)", int(s))
}

// ParseSpecialty maps an office name to a Specialty.
func ParseSpecialty(label string) (Specialty, error) {
	for sp, name := range specialtyNames {
		if strings.EqualFold(strings.TrimSpace(label), name) {
			return sp, nil
		}
	}
	return 0, fmt.Errorf("unknown specialty %q", label)
}

// Patient is one person moving through the hospital. Everything but the
// departure time is fixed at arrival; the departure time is set exactly once.
type Patient struct {
	ID          int
	Severity    Severity
	Symptom     Symptom
	ArrivalTime sim.SimTime

	departureTime sim.SimTime
	departed      bool
	path          []Stage
}

// NewPatient creates a patient that arrived at the given time.
func NewPatient(id int, severity Severity, symptom Symptom, arrival sim.SimTime) *Patient {
	return &Patient{
		ID:          id,
		Severity:    severity,
		Symptom:     symptom,
		ArrivalTime: arrival,
	}
}

// DepartureTime returns the discharge time; ok is false until discharge.
func (p *Patient) DepartureTime() (t sim.SimTime, ok bool) {
	return p.departureTime, p.departed
}

// Discharged reports whether the patient has left.
func (p *Patient) Discharged() bool {
	return p.departed
}

// Path returns the stages the patient has passed through so far.
func (p *Patient) Path() []Stage {
	out := make([]Stage, len(p.path))
	copy(out, p.path)
	return out
}

func (p *Patient) setDeparture(now sim.SimTime) {
	if p.departed {
		panic(sim.Violation("Discharge", "patient %d already departed at %v", p.ID, p.departureTime))
	}
	if now < p.ArrivalTime {
		panic(sim.Violation("Discharge", "patient %d departs at %v before arriving at %v", p.ID, now, p.ArrivalTime))
	}
	p.departureTime = now
	p.departed = true
}

func (p *Patient) String() string {
	return fmt.Sprintf("patient %d (%s, %s)", p.ID, p.Severity, p.Symptom)
}
