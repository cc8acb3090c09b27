package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/export"
	"github.com/san-kum/ljforce/internal/force"
	"github.com/san-kum/ljforce/internal/neighbor"
	"github.com/san-kum/ljforce/internal/system"
	"github.com/spf13/cobra"
)

// plotCurve samples the kernel on an isolated pair from just inside sigma out
// past the cutoff.
func plotCurve(cmd *cobra.Command, args []string) error {
	if points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", points)
	}

	lj := force.New(1, force.NeighHalf, force.WithBackend(compute.NewSerialBackend()), force.WithLogger(logger))
	if err := lj.Configure(1, 1, epsilon, sigma, cutoff, 1); err != nil {
		return err
	}

	nl := neighbor.FromRows(neighbor.CSR, true, [][]int{{1}, {}})
	rMin := 0.95 * sigma
	rMax := 1.1 * cutoff
	if rMax <= rMin {
		return fmt.Errorf("cutoff %g is inside the repulsive core (sigma %g)", cutoff, sigma)
	}

	data := make([]float64, points)
	samples := make([]export.Point, points)
	for k := range data {
		r := rMin + (rMax-rMin)*float64(k)/float64(points-1)

		s := system.New(1, 2)
		s.AddParticle(system.Vec3{0, 0, 0}, 0)
		s.AddParticle(system.Vec3{r, 0, 0}, 0)
		if err := lj.Compute(s, nl); err != nil {
			return err
		}
		// positive when particle 1 is pushed away
		data[k] = s.F[1][0]
		samples[k] = export.Point{X: r, Y: data[k]}
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("F(r), r in [%.3g, %.3g], eps=%g sigma=%g cut=%g", rMin, rMax, epsilon, sigma, cutoff)),
	)
	fmt.Println(graph)

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.CurveSVG(samples, 800, 400, "#00ccff")), 0644); err != nil {
			return err
		}
		fmt.Printf("\nsaved %s\n", svgOut)
	}
	return nil
}
