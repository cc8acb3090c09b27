package neighbor

import (
	"fmt"
	"sort"

	"github.com/san-kum/ljforce/internal/compute"
	"github.com/san-kum/ljforce/internal/system"
)

// Build constructs a list of the given kind for the first nlocal particles of
// x. Every index of x is a candidate neighbor.
func Build(kind Kind, b compute.Backend, x []system.Vec3, nlocal int, cutneigh float64, half bool) (*List, error) {
	switch kind {
	case CSR:
		return BuildCSR(b, x, nlocal, cutneigh, half)
	case CSRMapConstr:
		return BuildMapConstr(x, nlocal, cutneigh, half)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

func BuildCSR(b compute.Backend, x []system.Vec3, nlocal int, cutneigh float64, half bool) (*List, error) {
	if cutneigh <= 0 {
		return nil, ErrInvalidCutoff
	}
	cutsq := cutneigh * cutneigh
	n := len(x)

	counts := make([]int, nlocal)
	err := b.ParallelFor(nlocal, func(i int) error {
		c := 0
		for j := firstCandidate(i, half); j < n; j++ {
			if j != i && distSq(x[i], x[j]) < cutsq {
				c++
			}
		}
		counts[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	l := &List{
		kind:    CSR,
		half:    half,
		offsets: make([]int, nlocal+1),
	}
	for i, c := range counts {
		l.offsets[i+1] = l.offsets[i] + c
	}
	l.neighs = make([]int, l.offsets[nlocal])

	err = b.ParallelFor(nlocal, func(i int) error {
		k := l.offsets[i]
		for j := firstCandidate(i, half); j < n; j++ {
			if j != i && distSq(x[i], x[j]) < cutsq {
				l.neighs[k] = j
				k++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

func BuildMapConstr(x []system.Vec3, nlocal int, cutneigh float64, half bool) (*List, error) {
	if cutneigh <= 0 {
		return nil, ErrInvalidCutoff
	}
	cutsq := cutneigh * cutneigh
	n := len(x)

	pairs := make(map[int][]int, nlocal)
	for i := 0; i < nlocal; i++ {
		for j := i + 1; j < n; j++ {
			if distSq(x[i], x[j]) >= cutsq {
				continue
			}
			pairs[i] = append(pairs[i], j)
			if !half && j < nlocal {
				pairs[j] = append(pairs[j], i)
			}
		}
	}

	rows := make([][]int, nlocal)
	for i := range rows {
		row := pairs[i]
		sort.Ints(row)
		rows[i] = row
	}

	return FromRows(CSRMapConstr, half, rows), nil
}

func firstCandidate(i int, half bool) int {
	if half {
		return i + 1
	}
	return 0
}

func distSq(a, b system.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
