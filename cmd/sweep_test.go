package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-sim/hospital-sim/sim/hospital"
	"github.com/hospital-sim/hospital-sim/sim/store"
)

func TestDefaultSweepGrid_CellCount(t *testing.T) {
	cells := defaultSweepGrid().cells()
	assert.Len(t, cells, 5*5*5*4*4)
	assert.Equal(t, "beds=1 doctors=1 nurses=2 waiting=5 surgery=1", cells[0].Label)
	assert.Equal(t, "beds=1 doctors=1 nurses=2 waiting=5 surgery=2", cells[1].Label)
	assert.Equal(t, "beds=5 doctors=5 nurses=10 waiting=30 surgery=5", cells[len(cells)-1].Label)
}

func smallGrid() sweepGrid {
	return sweepGrid{
		EmergencyBeds: []int{1, 2},
		Doctors:       []int{1},
		Nurses:        []int{2},
		WaitingRoom:   []int{5},
		SurgeryRooms:  []int{1, 3},
	}
}

func TestRunSweep_EveryPatientDischarged(t *testing.T) {
	// GIVEN a four-cell grid and five patients per cell
	cells, err := runSweep(hospital.DefaultConfig(), smallGrid(), 5)
	require.NoError(t, err)

	// THEN every cell ran to completion
	require.Len(t, cells, 4)
	for i, c := range cells {
		assert.Equal(t, hospital.DefaultConfig().Seed+int64(i), c.Seed)
		require.Len(t, c.Records, 5, c.Label)
		for _, r := range c.Records {
			assert.True(t, r.Discharged(), "%s: patient %d", c.Label, r.PatientID)
			assert.Equal(t, 0.0, r.ArrivalTime)
			assert.LessOrEqual(t, *r.DepartureTime, c.EndTime)
		}
	}
}

func TestRunSweep_Reproducible(t *testing.T) {
	a, err := runSweep(hospital.DefaultConfig(), smallGrid(), 3)
	require.NoError(t, err)
	b, err := runSweep(hospital.DefaultConfig(), smallGrid(), 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSweepCmd_StoresEveryCell(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sweep.sqlite3")
	resultsPath := filepath.Join(dir, "sweep.yaml")

	root := newRootCmd()
	root.SetArgs([]string{
		"sweep", "--beds", "1,2", "--doctors", "1", "--nurses", "2",
		"--waiting-room", "5", "--surgery-rooms", "1",
		"--patients", "2", "--db", dbPath, "--results", resultsPath,
	})
	require.NoError(t, root.Execute())

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "sweep", r.Scenario)
		assert.Equal(t, 2, r.Arrived)
		assert.Equal(t, 2, r.Discharged)
	}
	assert.FileExists(t, resultsPath)
}
