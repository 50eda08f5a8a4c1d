package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hospital-sim/hospital-sim/sim/hospital"
	"github.com/hospital-sim/hospital-sim/sim/store"
)

func TestRunCmd_WritesEverySink(t *testing.T) {
	// GIVEN a config file and output paths in a temp dir
	dir := t.TempDir()
	configPath := filepath.Join(dir, "hospital.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("staff:\n  doctors: 5\n  nurses: 6\n"), 0o644))
	resultsPath := filepath.Join(dir, "results.yaml")
	dbPath := filepath.Join(dir, "runs.sqlite3")
	metricsPath := filepath.Join(dir, "hospital.prom")

	// WHEN the run command executes
	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{
		"run", "--config", configPath, "--seed", "7", "--horizon", "120",
		"--scenario", "mass_emergency",
		"--results", resultsPath, "--db", dbPath, "--metrics", metricsPath,
	})
	require.NoError(t, root.Execute())

	// THEN the summary is printed
	out := stdout.String()
	assert.Contains(t, out, "=== Hospital Simulation ===")
	assert.Contains(t, out, "mass_emergency")
	assert.Contains(t, out, "Seed                 : 7")
	assert.Contains(t, out, "doctors")

	// AND the results file carries the flag overrides
	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	var res hospital.Result
	require.NoError(t, yaml.Unmarshal(data, &res))
	assert.Equal(t, int64(7), res.Seed)
	assert.Equal(t, 120.0, res.EndTime)
	assert.Equal(t, "mass_emergency", res.Scenario)
	require.NotEmpty(t, res.Records)
	for _, p := range res.Pools {
		if p.Name == hospital.PoolDoctors {
			assert.Equal(t, 5, p.Capacity)
		}
	}

	// AND the run is in the database
	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, len(res.Records), runs[0].Arrived)

	// AND metrics were written
	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hospital_patients_arrived_total")
}

func TestRunSimulation_NoSinks(t *testing.T) {
	cfg := hospital.DefaultConfig()
	cfg.Horizon = 30
	res, err := runSimulation(cfg, outputs{})
	require.NoError(t, err)
	assert.Equal(t, hospital.ScenarioNormal, res.Scenario)
	assert.Equal(t, 30.0, res.EndTime)
}

func TestRunSimulation_InvalidConfig(t *testing.T) {
	cfg := hospital.DefaultConfig()
	cfg.Capacities.EmergencyBeds = 0
	_, err := runSimulation(cfg, outputs{})
	assert.Error(t, err)
}

func TestBuildConfig_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staf:\n  doctors: 1\n"), 0o644))
	_, err := buildConfig(path)
	assert.Error(t, err)

	cfg, err := buildConfig("")
	require.NoError(t, err)
	assert.Equal(t, hospital.DefaultConfig().Staff, cfg.Staff)
}

func TestPrintSummary_ListsPools(t *testing.T) {
	cfg := hospital.DefaultConfig()
	cfg.Horizon = 60
	res, err := hospital.Simulate(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	printSummary(&buf, res)
	out := buf.String()
	for _, name := range []string{"emergency_beds", "xray", "office_internist", "--- By Severity ---"} {
		assert.Contains(t, out, name)
	}
}
