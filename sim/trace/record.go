// Package trace provides the event log and per-patient records of a hospital run.
// This package has no dependencies on sim/ or sim/hospital/; it stores pure data types.
package trace

// Entry is one notable step in a patient's journey.
type Entry struct {
	PatientID int     `yaml:"patient_id"`
	Stage     string  `yaml:"stage"`
	Time      float64 `yaml:"time"`
}

// PatientRecord is the row emitted for every generated patient. DepartureTime
// is nil when the horizon truncated the journey.
type PatientRecord struct {
	PatientID     int      `yaml:"patient_id"`
	Symptom       string   `yaml:"symptom"`
	Severity      string   `yaml:"severity"`
	ArrivalTime   float64  `yaml:"arrival_time"`
	DepartureTime *float64 `yaml:"departure_time"`
}

// Discharged reports whether the patient left before the horizon.
func (r PatientRecord) Discharged() bool {
	return r.DepartureTime != nil
}

// LengthOfStay returns departure minus arrival; ok is false for open records.
func (r PatientRecord) LengthOfStay() (los float64, ok bool) {
	if r.DepartureTime == nil {
		return 0, false
	}
	return *r.DepartureTime - r.ArrivalTime, true
}
