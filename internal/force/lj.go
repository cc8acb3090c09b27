package force

import (
	"fmt"

	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/neighbor"
	"github.com/san-kum/ljforce/internal/system"
	"go.uber.org/zap"
)

// LJ is a cutoff-truncated 12-6 pair force over a neighbor list.
type LJ struct {
	params  *ParamTable
	iter    Iteration
	backend compute.Backend
	logger  *zap.Logger
	step    int
}

type Option func(*LJ)

func WithBackend(b compute.Backend) Option {
	return func(f *LJ) { f.backend = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *LJ) { f.logger = l }
}

func New(ntypes int, iter Iteration, opts ...Option) *LJ {
	f := &LJ{
		params:  NewParamTable(ntypes),
		iter:    iter,
		backend: compute.GetBackend(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LJ) Name() string {
	if f.iter.Half() {
		return "ForceLJNeighHalf"
	}
	return "ForceLJNeighFull"
}

func (f *LJ) Iteration() Iteration     { return f.iter }
func (f *LJ) Backend() compute.Backend { return f.backend }
func (f *LJ) Table() *ParamTable       { return f.params }
func (f *LJ) Step() int                { return f.step }

// Configure sets the coefficients of the pair (t1,t2) and its mirror. Types
// are 1-based. The new values are visible to the next Compute. Configure
// must not run concurrently with Compute.
func (f *LJ) Configure(t1, t2 int, eps, sigma, cut float64, nrepeat int) error {
	if err := f.params.check(t1-1, t2-1); err != nil {
		return err
	}
	// negated comparisons also reject NaN
	if !(eps >= 0) || !(sigma >= 0) || !(cut >= 0) || nrepeat < 0 {
		return fmt.Errorf("%w: eps=%g sigma=%g cut=%g nrepeat=%d", ErrParameterBounds, eps, sigma, cut, nrepeat)
	}

	p := NewPairParams(eps, sigma, cut, nrepeat)
	if err := f.params.Set(t1-1, t2-1, p); err != nil {
		return err
	}
	f.step = 0

	f.logger.Debug("pair coefficients set",
		zap.String("force", f.Name()),
		zap.Int("type1", t1),
		zap.Int("type2", t2),
		zap.Float64("lj1", p.Lj1),
		zap.Float64("lj2", p.Lj2),
		zap.Float64("cutsq", p.Cutsq),
		zap.Int("nrepeat", p.NRepeat))
	return nil
}

// InitCoeff applies a "pair_coeff t1 t2 eps sigma cut nrepeat" command.
func (f *LJ) InitCoeff(line string) error {
	c, err := ParsePairCoeff(line)
	if err != nil {
		return err
	}
	return f.Configure(c.Type1, c.Type2, c.Epsilon, c.Sigma, c.Cutoff, c.NRepeat)
}

// Params returns the published coefficients for 1-based types.
func (f *LJ) Params(t1, t2 int) (PairParams, error) {
	return f.params.Get(t1-1, t2-1)
}

// Compute adds the pair force on every local particle of sys into sys.F. It
// returns once every work item has finished. Particle types and neighbor
// indices are validated before anything is accumulated, so on error sys.F
// and the step counter are unchanged.
func (f *LJ) Compute(sys *system.System, nl *neighbor.List) error {
	if err := f.checkInputs(sys, nl); err != nil {
		return err
	}

	params := f.params.Snapshot()
	ntypes := f.params.NTypes()

	x, typ, frc := sys.X, sys.Type, sys.F
	nall := min(len(x), len(typ), len(frc))

	if err := f.backend.ParallelFor(sys.NLocal, func(i int) error {
		return checkRow(i, nl.Neighbors(i), typ, nall, ntypes)
	}); err != nil {
		return err
	}

	half := f.iter.Half()
	add := frc.Add
	if half && f.backend.Concurrent() {
		add = frc.AtomicAdd
	}

	err := f.backend.ParallelFor(sys.NLocal, func(i int) error {
		ti := typ[i]
		xi := x[i]

		var fi system.Vec3
		for _, j := range nl.Neighbors(i) {
			d := xi.Sub(x[j])
			rsq := d.Dot(d)
			p := params[ti*ntypes+typ[j]]
			if rsq >= p.Cutsq {
				continue
			}

			r2inv := 1.0 / rsq
			r6inv := r2inv * r2inv * r2inv
			fpair := (p.Lj1*r6inv*r6inv - p.Lj2*r6inv) * r2inv

			fij := d.Scale(fpair)
			fi = fi.Add(fij)
			if half {
				add(j, fij.Scale(-1))
			}
		}

		add(i, fi)
		return nil
	})
	if err != nil {
		return err
	}

	f.step++
	return nil
}

// checkRow validates particle i and every neighbor in its row.
func checkRow(i int, row []int, typ []int, nall, ntypes int) error {
	if ti := typ[i]; ti < 0 || ti >= ntypes {
		return typeError(i, ti, ntypes)
	}
	for _, j := range row {
		if j < 0 || j >= nall {
			return &IndexError{Field: "neighbor", Index: j, Len: nall, Particle: i, Wrapped: ErrParticleOutOfRange}
		}
		if tj := typ[j]; tj < 0 || tj >= ntypes {
			return typeError(j, tj, ntypes)
		}
	}
	return nil
}

func (f *LJ) checkInputs(sys *system.System, nl *neighbor.List) error {
	n := sys.NLocal
	if len(sys.X) < n || len(sys.Type) < n || len(sys.F) < n {
		return fmt.Errorf("%w: %d local particles but x=%d type=%d f=%d",
			ErrDimensionMismatch, n, len(sys.X), len(sys.Type), len(sys.F))
	}
	if nl.NumRows() < n {
		return fmt.Errorf("%w: %d local particles but %d neighbor rows", ErrDimensionMismatch, n, nl.NumRows())
	}
	if nl.Half() != f.iter.Half() {
		return fmt.Errorf("%w: %s kernel given a list with half=%t", ErrListMismatch, f.iter, nl.Half())
	}
	return nil
}
