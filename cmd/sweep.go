package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hospital-sim/hospital-sim/sim"
	"github.com/hospital-sim/hospital-sim/sim/hospital"
	"github.com/hospital-sim/hospital-sim/sim/store"
	"github.com/hospital-sim/hospital-sim/sim/trace"
)

// sweepGrid lists the capacities tried per resource. Every combination is a cell.
type sweepGrid struct {
	EmergencyBeds []int
	Doctors       []int
	Nurses        []int
	WaitingRoom   []int
	SurgeryRooms  []int
}

func defaultSweepGrid() sweepGrid {
	return sweepGrid{
		EmergencyBeds: []int{1, 2, 3, 4, 5},
		Doctors:       []int{1, 2, 3, 4, 5},
		Nurses:        []int{2, 4, 6, 8, 10},
		WaitingRoom:   []int{5, 10, 20, 30},
		SurgeryRooms:  []int{1, 2, 3, 5},
	}
}

// sweepCell is one capacity combination and what its patients went through.
type sweepCell struct {
	Label         string                `yaml:"label"`
	Seed          int64                 `yaml:"seed"`
	EmergencyBeds int                   `yaml:"emergency_beds"`
	Doctors       int                   `yaml:"doctors"`
	Nurses        int                   `yaml:"nurses"`
	WaitingRoom   int                   `yaml:"waiting_room"`
	SurgeryRooms  int                   `yaml:"surgery_rooms"`
	EndTime       float64               `yaml:"end_time"`
	Records       []trace.PatientRecord `yaml:"records"`
	Entries       []trace.Entry         `yaml:"-"`
}

// cells enumerates the grid with the last dimension varying fastest.
func (g sweepGrid) cells() []sweepCell {
	var out []sweepCell
	for _, beds := range g.EmergencyBeds {
		for _, doctors := range g.Doctors {
			for _, nurses := range g.Nurses {
				for _, waiting := range g.WaitingRoom {
					for _, surgery := range g.SurgeryRooms {
						out = append(out, sweepCell{
							Label:         fmt.Sprintf("beds=%d doctors=%d nurses=%d waiting=%d surgery=%d", beds, doctors, nurses, waiting, surgery),
							EmergencyBeds: beds,
							Doctors:       doctors,
							Nurses:        nurses,
							WaitingRoom:   waiting,
							SurgeryRooms:  surgery,
						})
					}
				}
			}
		}
	}
	return out
}

// runSweep simulates every cell of the grid. Each cell admits the given
// number of patients at t=0 and runs until every journey has finished. Cell i uses
// seed base.Seed+i, so cells are independent and the sweep is reproducible.
func runSweep(base hospital.Config, grid sweepGrid, patients int) ([]sweepCell, error) {
	cells := grid.cells()
	for i := range cells {
		c := &cells[i]
		cfg := base
		cfg.Seed = base.Seed + int64(i)
		cfg.Capacities.EmergencyBeds = c.EmergencyBeds
		cfg.Staff.Doctors = c.Doctors
		cfg.Staff.Nurses = c.Nurses
		cfg.Capacities.WaitingRoom = c.WaitingRoom
		cfg.Capacities.SurgeryRooms = c.SurgeryRooms

		m, err := hospital.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", c.Label, err)
		}
		for n := 0; n < patients; n++ {
			m.Admit(m.Arrivals.NextPatient(m.Sim.Now()))
		}
		res := m.Run(sim.Forever)

		c.Seed = cfg.Seed
		c.EndTime = res.EndTime
		c.Records = res.Records
		c.Entries = res.Entries
		logrus.Debugf("%s: finished at %.2f min", c.Label, res.EndTime)
	}
	return cells, nil
}

func newSweepCmd() *cobra.Command {
	var (
		seed        int64
		patients    int
		configPath  string
		logLevel    string
		resultsPath string
		dbPath      string
	)
	grid := defaultSweepGrid()

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a fixed batch of patients through every combination of capacities",
		Run: func(cmd *cobra.Command, args []string) {
			setLogLevel(logLevel)

			cfg, err := buildConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if patients < 1 {
				logrus.Fatalf("--patients must be at least 1, got %d", patients)
			}

			cells, err := runSweep(cfg, grid, patients)
			if err != nil {
				logrus.Fatalf("%v", err)
			}

			total := 0
			for _, c := range cells {
				total += len(c.Records)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Simulated %d capacity combinations, %d patient records.\n", len(cells), total)

			if resultsPath != "" {
				if err := writeYAML(resultsPath, cells); err != nil {
					logrus.Fatalf("%v", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Records written to %s\n", resultsPath)
			}
			if dbPath != "" {
				runs := make([]store.Run, 0, len(cells))
				for _, c := range cells {
					runs = append(runs, store.Run{
						Label:    c.Label,
						Scenario: "sweep",
						Seed:     c.Seed,
						EndTime:  c.EndTime,
						Records:  c.Records,
						Entries:  c.Entries,
					})
				}
				if _, err := storeRuns(dbPath, runs); err != nil {
					logrus.Fatalf("%v", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Runs stored in %s\n", dbPath)
			}
		},
	}

	defaults := hospital.DefaultConfig()
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Base seed; cell i uses seed+i")
	cmd.Flags().IntVar(&patients, "patients", 5, "Patients admitted at t=0 in every cell")
	cmd.Flags().StringVar(&configPath, "config", "", "Hospital config YAML for everything the grid does not vary")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&resultsPath, "results", "", "Write every cell's records as YAML to this file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Append every cell as a run to this SQLite database")

	cmd.Flags().IntSliceVar(&grid.EmergencyBeds, "beds", grid.EmergencyBeds, "Emergency bed capacities to try")
	cmd.Flags().IntSliceVar(&grid.Doctors, "doctors", grid.Doctors, "Doctor counts to try")
	cmd.Flags().IntSliceVar(&grid.Nurses, "nurses", grid.Nurses, "Nurse counts to try")
	cmd.Flags().IntSliceVar(&grid.WaitingRoom, "waiting-room", grid.WaitingRoom, "Waiting room capacities to try")
	cmd.Flags().IntSliceVar(&grid.SurgeryRooms, "surgery-rooms", grid.SurgeryRooms, "Surgery room capacities to try")
	return cmd
}
