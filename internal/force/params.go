package force

import (
	"math"
	"sync"
	"sync/atomic"
)

// PairParams holds the coefficients for one ordered type pair. The zero value
// means no interaction.
type PairParams struct {
	Lj1     float64 // 48·ε·σ¹²
	Lj2     float64 // 24·ε·σ⁶
	Cutsq   float64
	NRepeat int
}

func NewPairParams(eps, sigma, cut float64, nrepeat int) PairParams {
	return PairParams{
		Lj1:     48.0 * eps * math.Pow(sigma, 12.0),
		Lj2:     24.0 * eps * math.Pow(sigma, 6.0),
		Cutsq:   cut * cut,
		NRepeat: nrepeat,
	}
}

// ParamTable is an ntypes x ntypes table of PairParams with 0-based type
// indices. Writes go to a staging buffer; Publish makes them visible to
// Snapshot readers in one step. Entry (t1,t2) always equals (t2,t1).
type ParamTable struct {
	ntypes int

	mu     sync.Mutex
	staged []PairParams

	published atomic.Pointer[[]PairParams]
}

func NewParamTable(ntypes int) *ParamTable {
	if ntypes < 0 {
		ntypes = 0
	}
	t := &ParamTable{
		ntypes: ntypes,
		staged: make([]PairParams, ntypes*ntypes),
	}
	pub := make([]PairParams, ntypes*ntypes)
	t.published.Store(&pub)
	return t
}

func (t *ParamTable) NTypes() int { return t.ntypes }

// Stage writes p to both (t1,t2) and (t2,t1) of the staging buffer.
func (t *ParamTable) Stage(t1, t2 int, p PairParams) error {
	if err := t.check(t1, t2); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageLocked(t1, t2, p)
	return nil
}

// Publish copies the staging buffer into a new compute-visible table.
func (t *ParamTable) Publish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publishLocked()
}

// Set stages and publishes one pair under a single lock.
func (t *ParamTable) Set(t1, t2 int, p PairParams) error {
	if err := t.check(t1, t2); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageLocked(t1, t2, p)
	t.publishLocked()
	return nil
}

// Snapshot returns the published table, row-major with stride NTypes. The
// slice is never written after publication.
func (t *ParamTable) Snapshot() []PairParams {
	return *t.published.Load()
}

func (t *ParamTable) Get(t1, t2 int) (PairParams, error) {
	if err := t.check(t1, t2); err != nil {
		return PairParams{}, err
	}
	return t.Snapshot()[t1*t.ntypes+t2], nil
}

func (t *ParamTable) Staged(t1, t2 int) (PairParams, error) {
	if err := t.check(t1, t2); err != nil {
		return PairParams{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.staged[t1*t.ntypes+t2], nil
}

func (t *ParamTable) stageLocked(t1, t2 int, p PairParams) {
	t.staged[t1*t.ntypes+t2] = p
	t.staged[t2*t.ntypes+t1] = p
}

func (t *ParamTable) publishLocked() {
	pub := make([]PairParams, len(t.staged))
	copy(pub, t.staged)
	t.published.Store(&pub)
}

func (t *ParamTable) check(t1, t2 int) error {
	for _, ti := range [2]int{t1, t2} {
		if ti < 0 || ti >= t.ntypes {
			return &IndexError{Field: "type", Index: ti, Len: t.ntypes, Particle: -1, Wrapped: ErrTypeOutOfRange}
		}
	}
	return nil
}
