package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir string
	verbose bool
	logger  *zap.Logger

	// run / bench
	configFile string
	preset     string
	iteration  string
	neighType  string
	backend    string
	workers    int
	steps      int
	cells      int
	dt         float64
	noSave     bool

	// curve
	epsilon float64
	sigma   float64
	cutoff  float64
	points  int

	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ljforce",
		Short:         "lennard-jones pair force engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ljforce", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate forces on a lattice",
		Args:  cobra.NoArgs,
		RunE:  runForces,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare full and half traversal across backends",
		Args:  cobra.NoArgs,
		RunE:  benchForces,
	}
	addSetupFlags(benchCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "step a run interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  watchRun,
	}
	addSetupFlags(watchCmd)

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot the pair force against distance",
		Args:  cobra.NoArgs,
		RunE:  plotCurve,
	}
	curveCmd.Flags().Float64Var(&epsilon, "eps", 1.0, "epsilon")
	curveCmd.Flags().Float64Var(&sigma, "sigma", 1.0, "sigma")
	curveCmd.Flags().Float64Var(&cutoff, "cut", 2.5, "cutoff radius")
	curveCmd.Flags().IntVar(&points, "points", 80, "samples")
	curveCmd.Flags().StringVar(&svgOut, "svg", "", "also write the curve to an svg file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and force distribution",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&svgOut, "svg", "", "write an xy projection of the forces to an svg file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, benchCmd, watchCmd, curveCmd, listCmd, showCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&iteration, "iteration", "NEIGH_HALF", "force iteration (NEIGH_HALF, NEIGH_FULL)")
	cmd.Flags().StringVar(&neighType, "neigh", "CSR", "neighbor list type (CSR, CSR_MAPCONSTR)")
	cmd.Flags().StringVar(&backend, "backend", "auto", "compute backend (auto, cpu, serial)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = NumCPU)")
	cmd.Flags().IntVar(&steps, "steps", 10, "force evaluations")
	cmd.Flags().IntVar(&cells, "cells", 8, "unit cells per side")
	cmd.Flags().Float64Var(&dt, "dt", 0, "velocity-verlet time step (0 = static positions)")
}
