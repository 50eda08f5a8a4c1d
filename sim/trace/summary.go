package trace

import "sort"

// SeveritySummary aggregates the records of one severity level.
type SeveritySummary struct {
	Arrived          int     `yaml:"arrived"`
	Discharged       int     `yaml:"discharged"`
	MeanLengthOfStay float64 `yaml:"mean_length_of_stay"`
}

// Summary aggregates statistics from a run's records and log.
type Summary struct {
	Arrived          int                        `yaml:"arrived"`
	Discharged       int                        `yaml:"discharged"`
	InFlight         int                        `yaml:"in_flight"`
	MeanLengthOfStay float64                    `yaml:"mean_length_of_stay"`
	MaxLengthOfStay  float64                    `yaml:"max_length_of_stay"`
	BySeverity       map[string]SeveritySummary `yaml:"by_severity"`
	StageCounts      map[string]int             `yaml:"stage_counts"`
}

// Summarize computes aggregate statistics.
// Safe for nil or empty inputs (returns zero-value fields).
func Summarize(records []PatientRecord, entries []Entry) *Summary {
	summary := &Summary{
		BySeverity:  make(map[string]SeveritySummary),
		StageCounts: make(map[string]int),
	}

	var totalLOS float64
	losBySeverity := make(map[string]float64)
	for _, r := range records {
		summary.Arrived++
		sev := summary.BySeverity[r.Severity]
		sev.Arrived++

		los, ok := r.LengthOfStay()
		if ok {
			summary.Discharged++
			sev.Discharged++
			totalLOS += los
			losBySeverity[r.Severity] += los
			if los > summary.MaxLengthOfStay {
				summary.MaxLengthOfStay = los
			}
		}
		summary.BySeverity[r.Severity] = sev
	}
	summary.InFlight = summary.Arrived - summary.Discharged
	if summary.Discharged > 0 {
		summary.MeanLengthOfStay = totalLOS / float64(summary.Discharged)
	}
	for name, sev := range summary.BySeverity {
		if sev.Discharged > 0 {
			sev.MeanLengthOfStay = losBySeverity[name] / float64(sev.Discharged)
			summary.BySeverity[name] = sev
		}
	}

	for _, e := range entries {
		summary.StageCounts[e.Stage]++
	}
	return summary
}

// StageNames returns the stage labels seen, sorted.
func (s *Summary) StageNames() []string {
	names := make([]string, 0, len(s.StageCounts))
	for name := range s.StageCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
