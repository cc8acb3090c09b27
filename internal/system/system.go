package system

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLattice = errors.New("system: invalid lattice parameters")
	ErrInvalidType    = errors.New("system: particle type out of range")
)

// System is the local particle set. Positions and types are read-only while
// a force kernel runs; F is the only field kernels write.
type System struct {
	NTypes int
	NLocal int
	X      []Vec3
	Type   []int
	F      Forces
	// Box is the extent of the simulation domain along each axis.
	Box Vec3
}

func New(ntypes, capacity int) *System {
	return &System{
		NTypes: ntypes,
		X:      make([]Vec3, 0, capacity),
		Type:   make([]int, 0, capacity),
		F:      make(Forces, 0, capacity),
	}
}

// AddParticle appends a particle with a zero force and returns its index.
func (s *System) AddParticle(x Vec3, typ int) int {
	s.X = append(s.X, x)
	s.Type = append(s.Type, typ)
	s.F = append(s.F, Vec3{})
	s.NLocal = len(s.X)
	return s.NLocal - 1
}

func (s *System) ZeroForces() {
	s.F.Zero()
}

func (s *System) Validate() error {
	if len(s.X) < s.NLocal || len(s.Type) < s.NLocal || len(s.F) < s.NLocal {
		return fmt.Errorf("system: %d local particles but x=%d type=%d f=%d",
			s.NLocal, len(s.X), len(s.Type), len(s.F))
	}
	for i := 0; i < s.NLocal; i++ {
		if s.Type[i] < 0 || s.Type[i] >= s.NTypes {
			return fmt.Errorf("%w: particle %d has type %d (ntypes %d)", ErrInvalidType, i, s.Type[i], s.NTypes)
		}
	}
	return nil
}
