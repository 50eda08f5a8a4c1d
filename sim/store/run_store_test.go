package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-sim/hospital-sim/sim/hospital"
	"github.com/hospital-sim/hospital-sim/sim/trace"
)

func openTemp(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func departedAt(t float64) *float64 { return &t }

func TestRunStore_StoreAndReadBack(t *testing.T) {
	// GIVEN a run with one closed and one open record
	s := openTemp(t)
	run := Run{
		Label:           "unit",
		Scenario:        "normal",
		Seed:            42,
		ArrivalInterval: 5,
		EndTime:         100,
		Records: []trace.PatientRecord{
			{PatientID: 2, Symptom: "Lump", Severity: "Mild", ArrivalTime: 3, DepartureTime: departedAt(40)},
			{PatientID: 1, Symptom: "Fracture", Severity: "Critical", ArrivalTime: 1},
		},
		Entries: []trace.Entry{
			{PatientID: 1, Stage: "Arrival", Time: 1},
			{PatientID: 2, Stage: "Arrival", Time: 3},
			{PatientID: 2, Stage: "Discharge", Time: 40},
		},
	}

	// WHEN it is stored
	id, err := s.Store(run)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// THEN the runs table carries the counts
	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, RunInfo{
		ID: id, Label: "unit", Scenario: "normal", Seed: 42,
		ArrivalInterval: 5, EndTime: 100, Arrived: 2, Discharged: 1,
	}, runs[0])

	// AND patients come back ordered by id with NULL departures preserved
	patients, err := s.Patients(id)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, 1, patients[0].PatientID)
	assert.Nil(t, patients[0].DepartureTime)
	require.NotNil(t, patients[1].DepartureTime)
	assert.Equal(t, 40.0, *patients[1].DepartureTime)

	events, err := s.Events(id)
	require.NoError(t, err)
	assert.Equal(t, run.Entries, events)
}

func TestRunStore_DuplicateID_RollsBack(t *testing.T) {
	s := openTemp(t)
	run := Run{ID: "fixed", Scenario: "normal", Records: []trace.PatientRecord{{PatientID: 1}}}

	_, err := s.Store(run)
	require.NoError(t, err)
	_, err = s.Store(run)
	require.Error(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	patients, err := s.Patients("fixed")
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestRunStore_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.sqlite3")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Store(Run{Scenario: "normal"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, path, s.Path())
}

func TestRunStore_StoresSimulatedRun(t *testing.T) {
	cfg := hospital.DefaultConfig()
	cfg.Horizon = 120
	res, err := hospital.Simulate(cfg)
	require.NoError(t, err)

	s := openTemp(t)
	id, err := s.Store(Run{
		Scenario:        res.Scenario,
		Seed:            res.Seed,
		ArrivalInterval: res.ArrivalInterval,
		EndTime:         res.EndTime,
		Records:         res.Records,
		Entries:         res.Entries,
	})
	require.NoError(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Summary.Arrived, runs[0].Arrived)
	assert.Equal(t, res.Summary.Discharged, runs[0].Discharged)

	events, err := s.Events(id)
	require.NoError(t, err)
	assert.Len(t, events, len(res.Entries))
}
