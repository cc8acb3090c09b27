package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/ljforce/internal/config"
	"github.com/san-kum/ljforce/internal/experiment"
	"github.com/san-kum/ljforce/internal/storage"
	"github.com/san-kum/ljforce/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig starts from the defaults, then applies the preset, the config
// file and finally any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("iteration") {
		cfg.Force.Iteration = iteration
	}
	if flags.Changed("neigh") {
		cfg.Neighbor.Type = neighType
	}
	if flags.Changed("backend") {
		cfg.Compute.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Compute.Workers = workers
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Integrator.Dt = dt
		if cfg.Integrator.Mass == 0 {
			cfg.Integrator.Mass = config.DefaultMass
		}
	}
	if flags.Changed("cells") {
		cfg.Lattice.NX, cfg.Lattice.NY, cfg.Lattice.NZ = cells, cells, cells
	}

	return cfg, nil
}

func runForces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s on %d particles...\n", exp.Force().Name(), exp.System().NLocal)

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	printTitle("\n" + exp.Force().Name())
	printField("backend", fmt.Sprintf("%s x%d", exp.Backend().Name(), exp.Backend().Workers()))
	printField("neighbor list", fmt.Sprintf("%s (%d entries)", exp.List().Kind(), exp.List().Total()))
	printField("steps", result.Steps)
	if exp.Integrating() {
		printField("dt", cfg.Integrator.Dt)
	}
	printField("time/step", time.Duration(float64(result.Elapsed)/float64(result.Steps)))
	printMetrics(result.Metrics)

	if result.Summary.Invalid > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d particles have non-finite forces (coincident positions?)", result.Summary.Invalid)))
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.Metadata(result), exp.System())
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("id", runID), zap.String("dir", dataDir))
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func watchRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, zap.NewNop())
	if err := exp.Setup(); err != nil {
		return err
	}
	return tui.Watch(exp)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printField(name, fmt.Sprintf("%.6g", m[name]))
	}
}

func benchForces(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backends := []string{"serial", "cpu"}
	if cmd.Flags().Changed("backend") {
		backends = []string{backend}
	}

	fmt.Printf("benchmarking %dx%dx%d %s lattice, %d steps\n\n",
		base.Lattice.NX, base.Lattice.NY, base.Lattice.NZ, base.Lattice.Style, base.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORCE\tBACKEND\tWORKERS\tNEIGHBORS\tTIME/STEP\tPAIRS/SEC\tMAX|F|")

	for _, b := range backends {
		for _, it := range []string{"NEIGH_FULL", "NEIGH_HALF"} {
			cfg := *base
			cfg.Compute.Backend = b
			cfg.Force.Iteration = it

			exp := experiment.New(&cfg, logger)
			if err := exp.Setup(); err != nil {
				return err
			}
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}

			perStep := result.Elapsed / time.Duration(result.Steps)
			pairsPerSec := float64(exp.List().Total()) / perStep.Seconds()

			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%.3g\t%.6g\n",
				exp.Force().Name(),
				exp.Backend().Name(),
				exp.Backend().Workers(),
				exp.List().Total(),
				perStep,
				pairsPerSec,
				result.Summary.MaxMag,
			)
		}
	}

	return w.Flush()
}
