package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hospital-sim/hospital-sim/sim/hospital"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	seed        int64   // Seed for every random draw of the run
	horizon     float64 // Simulated minutes before the run is cut off
	scenario    string  // Arrival scenario (normal, mass_emergency)
	configPath  string  // Optional hospital YAML, layered over the defaults
	logLevel    string  // Log verbosity level
	resultsPath string  // YAML file for the run result
	dbPath      string  // SQLite file for records and event log
	metricsPath string  // Prometheus textfile
}

// rootCmd is the base command for the CLI
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hospital-sim",
		Short: "Discrete-event simulator for hospital patient flow",
	}
	root.AddCommand(newRunCmd(), newSweepCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one shift of stochastic patient arrivals",
		Run: func(cmd *cobra.Command, args []string) {
			setLogLevel(opts.logLevel)

			cfg, err := buildConfig(opts.configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.seed
			}
			if cmd.Flags().Changed("horizon") {
				cfg.Horizon = opts.horizon
			}
			if cmd.Flags().Changed("scenario") {
				cfg.Scenario = opts.scenario
			}

			res, err := runSimulation(cfg, outputs{
				results: opts.resultsPath,
				db:      opts.dbPath,
				metrics: opts.metricsPath,
			})
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			printSummary(cmd.OutOrStdout(), res)
			logrus.Info("Simulation complete.")
		},
	}

	defaults := hospital.DefaultConfig()
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed, "Seed for arrivals, patient draws and service times")
	cmd.Flags().Float64Var(&opts.horizon, "horizon", defaults.Horizon, "Simulation horizon (in minutes)")
	cmd.Flags().StringVar(&opts.scenario, "scenario", defaults.Scenario, "Arrival scenario (normal, mass_emergency)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Hospital config YAML (overrides the built-in defaults)")
	cmd.Flags().StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&opts.resultsPath, "results", "", "Write the run result as YAML to this file")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Append the run to this SQLite database")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics", "", "Write Prometheus metrics in text format to this file")
	return cmd
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// buildConfig returns the defaults, overlaid with the YAML at path if given.
func buildConfig(path string) (hospital.Config, error) {
	if path == "" {
		return hospital.DefaultConfig(), nil
	}
	cfg, err := hospital.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	logrus.Infof("Loaded hospital config from %s", path)
	return cfg, nil
}
