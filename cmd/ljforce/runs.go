package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ljforce/internal/config"
	"github.com/san-kum/ljforce/internal/export"
	"github.com/san-kum/ljforce/internal/metrics"
	"github.com/san-kum/ljforce/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORCE\tTIME\tPARTICLES\tNEIGH\tBACKEND\tSTEPS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%.3fs\n",
			run.ID,
			run.Force,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Neighbor,
			run.Backend,
			run.Steps,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	sys, err := st.LoadForces(runID)
	if err != nil {
		return err
	}

	printTitle(meta.ID)
	printField("force", meta.Force)
	printField("neighbor list", fmt.Sprintf("%s (%d entries)", meta.Neighbor, meta.Neighbors))
	printField("backend", fmt.Sprintf("%s x%d", meta.Backend, meta.Workers))
	printField("particles", meta.Particles)
	printField("types", meta.NTypes)
	printField("steps", meta.Steps)
	printField("pair_coeff", strings.Join(meta.PairCoeff, "; "))
	printMetrics(meta.Metrics)

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.ParticlesSVG(sys, 800, 800)), 0644); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", svgOut)
	}

	summary := metrics.Summarize(sys.F)
	if summary.Invalid > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d stored forces are not finite", summary.Invalid)))
	}
	if summary.Count-summary.Invalid < 2 {
		return nil
	}

	mags := make([]float64, 0, len(sys.F))
	for _, f := range sys.F {
		if f.IsValid() {
			mags = append(mags, f.Norm())
		}
	}
	sort.Float64s(mags)

	fmt.Println()
	graph := asciigraph.Plot(mags,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("|F| per particle, sorted"),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPES\tLATTICE\tITERATION\tNEIGH\tBACKEND\tSTEPS")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s %dx%dx%d\t%s\t%s\t%s\t%d\n",
			name,
			p.NTypes,
			p.Lattice.Style, p.Lattice.NX, p.Lattice.NY, p.Lattice.NZ,
			p.Force.Iteration,
			p.Neighbor.Type,
			p.Compute.Backend,
			p.Steps,
		)
	}

	return w.Flush()
}
