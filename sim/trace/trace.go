package trace

// EventLog is an append-only, time-ordered history of journey stages.
// Entries are appended by the running process at the current virtual time,
// so append order is time order.
type EventLog struct {
	entries []Entry
	records []PatientRecord
}

// NewEventLog creates an EventLog ready for recording.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]Entry, 0),
		records: make([]PatientRecord, 0),
	}
}

// Record appends a stage entry.
func (l *EventLog) Record(patientID int, stage string, now float64) {
	l.entries = append(l.entries, Entry{PatientID: patientID, Stage: stage, Time: now})
}

// Discharge appends a closed patient record, in discharge order.
func (l *EventLog) Discharge(record PatientRecord) {
	l.records = append(l.records, record)
}

// Entries returns the log. Callers MUST NOT modify the returned slice.
func (l *EventLog) Entries() []Entry {
	return l.entries
}

// Discharged returns the closed records in the order patients left.
func (l *EventLog) Discharged() []PatientRecord {
	return l.records
}

// ForPatient returns the entries of one patient, in time order.
func (l *EventLog) ForPatient(patientID int) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out
}

// Stages returns the stage labels of one patient, in time order.
func (l *EventLog) Stages(patientID int) []string {
	var out []string
	for _, e := range l.ForPatient(patientID) {
		out = append(out, e.Stage)
	}
	return out
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}
