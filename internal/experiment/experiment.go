package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/config"
	"github.com/san-kum/ljforce/internal/force"
	"github.com/san-kum/ljforce/internal/integrators"
	"github.com/san-kum/ljforce/internal/metrics"
	"github.com/san-kum/ljforce/internal/neighbor"
	"github.com/san-kum/ljforce/internal/storage"
	"github.com/san-kum/ljforce/internal/system"
	"go.uber.org/zap"
)

type Result struct {
	Steps   int
	Elapsed time.Duration
	Summary metrics.Summary
	Metrics map[string]float64
}

// Experiment wires a lattice, a neighbor list and an LJ force from a run
// configuration and evaluates forces for a number of steps.
type Experiment struct {
	cfg    *config.Config
	logger *zap.Logger

	sys     *system.System
	backend compute.Backend
	force   *force.LJ
	kind    neighbor.Kind
	list    *neighbor.List

	integ *integrators.Verlet
	vel   []system.Vec3
}

func New(cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

func (e *Experiment) Setup() error {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	style, err := system.ParseLattice(cfg.Lattice.Style)
	if err != nil {
		return err
	}
	iter, err := force.ParseIteration(cfg.Force.Iteration)
	if err != nil {
		return err
	}
	e.kind, err = neighbor.ParseKind(cfg.Neighbor.Type)
	if err != nil {
		return err
	}
	e.backend, err = compute.New(cfg.Compute.Backend, cfg.Compute.Workers)
	if err != nil {
		return err
	}

	e.sys, err = system.NewLattice(style, cfg.Lattice.Constant, cfg.Lattice.NX, cfg.Lattice.NY, cfg.Lattice.NZ, cfg.NTypes)
	if err != nil {
		return err
	}

	e.force = force.New(cfg.NTypes, iter, force.WithBackend(e.backend), force.WithLogger(e.logger))
	for _, line := range cfg.Force.PairCoeff {
		if err := e.force.InitCoeff(line); err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
	}

	if err := e.rebuildList(); err != nil {
		return err
	}

	if cfg.Integrator.Dt > 0 {
		e.integ, err = integrators.NewVerlet(cfg.Integrator.Dt, cfg.Integrator.Mass)
		if err != nil {
			return err
		}
		e.vel = make([]system.Vec3, e.sys.NLocal)
	}

	e.logger.Info("experiment ready",
		zap.String("force", e.force.Name()),
		zap.String("neighbor", e.kind.String()),
		zap.String("backend", e.backend.Name()),
		zap.Int("workers", e.backend.Workers()),
		zap.Int("particles", e.sys.NLocal),
		zap.Int("neighbors", e.list.Total()),
		zap.Bool("integrate", e.integ != nil))
	return nil
}

func (e *Experiment) rebuildList() error {
	list, err := neighbor.Build(e.kind, e.backend, e.sys.X, e.sys.NLocal, e.cfg.NeighborCutoff(), e.force.Iteration().Half())
	if err != nil {
		return fmt.Errorf("neighbor list: %w", err)
	}
	e.list = list
	return nil
}

func (e *Experiment) evaluate() error {
	e.sys.ZeroForces()
	return e.force.Compute(e.sys, e.list)
}

// moveAndEvaluate is the force callback of the integrator. The list is rebuilt
// from the moved positions before every evaluation.
func (e *Experiment) moveAndEvaluate() error {
	if err := e.rebuildList(); err != nil {
		return err
	}
	return e.evaluate()
}

// Prime computes the forces at the starting positions when an integrator is
// configured. Run calls it; callers driving Step directly must call it first.
func (e *Experiment) Prime() error {
	if e.force == nil {
		return fmt.Errorf("experiment not setup")
	}
	if e.integ == nil {
		return nil
	}
	if err := e.evaluate(); err != nil {
		return fmt.Errorf("initial forces: %w", err)
	}
	return nil
}

// Step performs one step: a velocity-Verlet move when integrating, otherwise
// a single force evaluation.
func (e *Experiment) Step() error {
	if e.force == nil {
		return fmt.Errorf("experiment not setup")
	}
	if e.integ != nil {
		return e.integ.Step(e.sys, e.vel, e.moveAndEvaluate)
	}
	return e.evaluate()
}

// Run calls Step cfg.Steps times after Prime. Cancellation is checked between
// steps only.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.Prime(); err != nil {
		return nil, err
	}

	rms := metrics.NewRMSForce()
	res := &Result{}

	start := time.Now()
	for step := 0; step < e.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := e.Step(); err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		rms.Observe(e.sys.F)
		res.Steps++

		e.logger.Debug("step complete", zap.Int("step", e.force.Step()))
	}
	res.Elapsed = time.Since(start)

	res.Summary = metrics.Summarize(e.sys.F)
	res.Metrics = res.Summary.Map()
	res.Metrics[rms.Name()] = rms.Value()
	if e.integ != nil {
		res.Metrics["kinetic_energy"] = e.KineticEnergy()
	}
	if res.Steps > 0 {
		res.Metrics["seconds_per_step"] = res.Elapsed.Seconds() / float64(res.Steps)
	}
	return res, nil
}

func (e *Experiment) Metadata(res *Result) storage.RunMetadata {
	return storage.RunMetadata{
		Force:     e.force.Name(),
		Iteration: e.force.Iteration().String(),
		Neighbor:  e.list.Kind().String(),
		Backend:   e.backend.Name(),
		Workers:   e.backend.Workers(),
		NTypes:    e.cfg.NTypes,
		Particles: e.sys.NLocal,
		Neighbors: e.list.Total(),
		Steps:     res.Steps,
		Dt:        e.cfg.Integrator.Dt,
		PairCoeff: append([]string(nil), e.cfg.Force.PairCoeff...),
		Elapsed:   res.Elapsed.Seconds(),
		Metrics:   res.Metrics,
	}
}

// KineticEnergy is zero unless an integrator is configured.
func (e *Experiment) KineticEnergy() float64 {
	if e.integ == nil {
		return 0
	}
	return integrators.KineticEnergy(e.vel, e.integ.Mass())
}

func (e *Experiment) Integrating() bool { return e.integ != nil }
func (e *Experiment) Steps() int        { return e.cfg.Steps }

func (e *Experiment) System() *system.System   { return e.sys }
func (e *Experiment) Force() *force.LJ         { return e.force }
func (e *Experiment) List() *neighbor.List     { return e.list }
func (e *Experiment) Backend() compute.Backend { return e.backend }
