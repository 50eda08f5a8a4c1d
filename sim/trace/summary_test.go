package trace

import "testing"

func departed(t float64) *float64 { return &t }

func TestSummarize_Empty_ZeroValues(t *testing.T) {
	// GIVEN no records
	// WHEN summarized
	summary := Summarize(nil, nil)

	// THEN all counts are zero
	if summary.Arrived != 0 || summary.Discharged != 0 || summary.InFlight != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.MeanLengthOfStay != 0 || summary.MaxLengthOfStay != 0 {
		t.Error("expected zero length of stay")
	}
	if len(summary.BySeverity) != 0 || len(summary.StageCounts) != 0 {
		t.Error("expected empty maps")
	}
}

func TestSummarize_MixedRecords_CorrectCounts(t *testing.T) {
	// GIVEN two discharged patients and one still in the hospital
	records := []PatientRecord{
		{PatientID: 1, Severity: "Mild", ArrivalTime: 0, DepartureTime: departed(20)},
		{PatientID: 2, Severity: "Critical", ArrivalTime: 5, DepartureTime: departed(105)},
		{PatientID: 3, Severity: "Mild", ArrivalTime: 10},
	}

	// WHEN summarized
	summary := Summarize(records, nil)

	// THEN counts and lengths of stay match
	if summary.Arrived != 3 {
		t.Errorf("expected 3 arrived, got %d", summary.Arrived)
	}
	if summary.Discharged != 2 {
		t.Errorf("expected 2 discharged, got %d", summary.Discharged)
	}
	if summary.InFlight != 1 {
		t.Errorf("expected 1 in flight, got %d", summary.InFlight)
	}
	if summary.MeanLengthOfStay != 60 {
		t.Errorf("expected mean LOS 60, got %v", summary.MeanLengthOfStay)
	}
	if summary.MaxLengthOfStay != 100 {
		t.Errorf("expected max LOS 100, got %v", summary.MaxLengthOfStay)
	}

	mild := summary.BySeverity["Mild"]
	if mild.Arrived != 2 || mild.Discharged != 1 || mild.MeanLengthOfStay != 20 {
		t.Errorf("unexpected Mild summary %+v", mild)
	}
}

func TestSummarize_StageCounts(t *testing.T) {
	entries := []Entry{
		{PatientID: 1, Stage: "Arrival"},
		{PatientID: 2, Stage: "Arrival"},
		{PatientID: 1, Stage: "Triage"},
	}

	summary := Summarize(nil, entries)

	if summary.StageCounts["Arrival"] != 2 || summary.StageCounts["Triage"] != 1 {
		t.Errorf("unexpected stage counts %v", summary.StageCounts)
	}
	names := summary.StageNames()
	if len(names) != 2 || names[0] != "Arrival" || names[1] != "Triage" {
		t.Errorf("StageNames() = %v", names)
	}
}

func TestPatientRecord_LengthOfStay(t *testing.T) {
	open := PatientRecord{ArrivalTime: 3}
	if _, ok := open.LengthOfStay(); ok || open.Discharged() {
		t.Error("open record reported as discharged")
	}

	closed := PatientRecord{ArrivalTime: 3, DepartureTime: departed(10)}
	los, ok := closed.LengthOfStay()
	if !ok || los != 7 {
		t.Errorf("LengthOfStay() = %v, %v; want 7, true", los, ok)
	}
}

func TestEventLog_RecordAndQuery(t *testing.T) {
	l := NewEventLog()
	l.Record(1, "Arrival", 0)
	l.Record(2, "Arrival", 1)
	l.Record(1, "Triage", 1)

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	stages := l.Stages(1)
	if len(stages) != 2 || stages[0] != "Arrival" || stages[1] != "Triage" {
		t.Errorf("Stages(1) = %v", stages)
	}
	if len(l.ForPatient(3)) != 0 {
		t.Error("ForPatient(3) should be empty")
	}

	l.Discharge(PatientRecord{PatientID: 2, DepartureTime: departed(9)})
	if len(l.Discharged()) != 1 || l.Discharged()[0].PatientID != 2 {
		t.Errorf("Discharged() = %v", l.Discharged())
	}
}
