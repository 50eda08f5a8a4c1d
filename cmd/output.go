package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hospital-sim/hospital-sim/sim/hospital"
	"github.com/hospital-sim/hospital-sim/sim/metrics"
	"github.com/hospital-sim/hospital-sim/sim/store"
)

// outputs names the optional sinks of a run; empty paths are skipped.
type outputs struct {
	results string
	db      string
	metrics string
}

// runSimulation runs cfg's scenario and writes the result to every sink.
func runSimulation(cfg hospital.Config, out outputs) (*hospital.Result, error) {
	collector := metrics.NewCollector()
	res, err := hospital.Simulate(cfg, hospital.WithObserver(collector))
	if err != nil {
		return nil, err
	}

	if out.results != "" {
		if err := writeYAML(out.results, res); err != nil {
			return res, err
		}
		logrus.Infof("Results written to %s", out.results)
	}
	if out.db != "" {
		id, err := storeRuns(out.db, []store.Run{runFromResult(res, "")})
		if err != nil {
			return res, err
		}
		logrus.Infof("Run %s stored in %s", id[0], out.db)
	}
	if out.metrics != "" {
		if err := collector.WriteTextfile(out.metrics); err != nil {
			return res, err
		}
		logrus.Infof("Metrics written to %s", out.metrics)
	}
	return res, nil
}

func runFromResult(res *hospital.Result, label string) store.Run {
	return store.Run{
		Label:           label,
		Scenario:        res.Scenario,
		Seed:            res.Seed,
		ArrivalInterval: res.ArrivalInterval,
		EndTime:         res.EndTime,
		Records:         res.Records,
		Entries:         res.Entries,
	}
}

// storeRuns appends runs to the SQLite database at path and returns their ids.
func storeRuns(path string, runs []store.Run) ([]string, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		id, err := db.Store(run)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}

// printSummary writes the human-readable report of a run.
func printSummary(w io.Writer, res *hospital.Result) {
	s := res.Summary
	fmt.Fprintln(w, "=== Hospital Simulation ===")
	fmt.Fprintf(w, "Scenario             : %s (mean arrival interval %.2f min)\n", res.Scenario, res.ArrivalInterval)
	fmt.Fprintf(w, "Seed                 : %d\n", res.Seed)
	fmt.Fprintf(w, "End Time             : %.2f min\n", res.EndTime)
	fmt.Fprintf(w, "Patients Arrived     : %d\n", s.Arrived)
	fmt.Fprintf(w, "Patients Discharged  : %d\n", s.Discharged)
	fmt.Fprintf(w, "Still In Hospital    : %d\n", s.InFlight)
	if s.Discharged > 0 {
		fmt.Fprintf(w, "Mean Length of Stay  : %.2f min\n", s.MeanLengthOfStay)
		fmt.Fprintf(w, "Max Length of Stay   : %.2f min\n", s.MaxLengthOfStay)
	}

	fmt.Fprintln(w, "\n--- By Severity ---")
	severities := make([]string, 0, len(s.BySeverity))
	for name := range s.BySeverity {
		severities = append(severities, name)
	}
	sort.Strings(severities)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "severity\tarrived\tdischarged\tmean LOS (min)")
	for _, name := range severities {
		sev := s.BySeverity[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\n", name, sev.Arrived, sev.Discharged, sev.MeanLengthOfStay)
	}
	tw.Flush()

	fmt.Fprintln(w, "\n--- Resource Pools ---")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "pool\tcapacity\tgrants\twaited\tmean wait\tmax wait\tpeak queue\tutilization")
	for _, p := range res.Pools {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%d\t%.1f%%\n",
			p.Name, p.Capacity, p.Grants, p.Waited, p.MeanWait, p.MaxWait, p.PeakQueue, 100*p.Utilization)
	}
	tw.Flush()
}
