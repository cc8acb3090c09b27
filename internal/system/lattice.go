package system

import (
	"fmt"
	"strings"
)

type LatticeStyle int

const (
	LatticeSC LatticeStyle = iota
	LatticeFCC
)

func (l LatticeStyle) String() string {
	switch l {
	case LatticeSC:
		return "sc"
	case LatticeFCC:
		return "fcc"
	default:
		return fmt.Sprintf("lattice(%d)", int(l))
	}
}

func ParseLattice(name string) (LatticeStyle, error) {
	switch strings.ToLower(name) {
	case "sc":
		return LatticeSC, nil
	case "fcc":
		return LatticeFCC, nil
	default:
		return 0, fmt.Errorf("%w: unknown style %q", ErrInvalidLattice, name)
	}
}

var latticeBasis = map[LatticeStyle][]Vec3{
	LatticeSC:  {{0, 0, 0}},
	LatticeFCC: {{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5}},
}

// NewLattice fills an nx*ny*nz block of unit cells with lattice constant a.
// Types are assigned round-robin over ntypes.
func NewLattice(style LatticeStyle, a float64, nx, ny, nz, ntypes int) (*System, error) {
	basis, ok := latticeBasis[style]
	if !ok {
		return nil, fmt.Errorf("%w: unknown style %d", ErrInvalidLattice, int(style))
	}
	if a <= 0 || nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("%w: a=%g cells=%dx%dx%d", ErrInvalidLattice, a, nx, ny, nz)
	}
	if ntypes <= 0 {
		return nil, fmt.Errorf("%w: ntypes=%d", ErrInvalidLattice, ntypes)
	}

	s := New(ntypes, nx*ny*nz*len(basis))
	s.Box = Vec3{a * float64(nx), a * float64(ny), a * float64(nz)}

	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				for _, b := range basis {
					x := Vec3{
						(float64(ix) + b[0]) * a,
						(float64(iy) + b[1]) * a,
						(float64(iz) + b[2]) * a,
					}
					s.AddParticle(x, s.NLocal%ntypes)
				}
			}
		}
	}

	return s, nil
}
