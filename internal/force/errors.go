package force

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeOutOfRange indicates a particle type outside [0, ntypes).
	ErrTypeOutOfRange = errors.New("force: type index out of range")

	// ErrParticleOutOfRange indicates a neighbor index outside the particle arrays.
	ErrParticleOutOfRange = errors.New("force: particle index out of range")

	// ErrParameterBounds indicates a negative epsilon, sigma, cutoff or repeat count.
	ErrParameterBounds = errors.New("force: parameter out of valid bounds")

	// ErrDimensionMismatch indicates particle arrays or neighbor rows shorter than NLocal.
	ErrDimensionMismatch = errors.New("force: dimension mismatch between system and neighbor list")

	// ErrListMismatch indicates a half list given to a full kernel or the reverse.
	ErrListMismatch = errors.New("force: neighbor list traversal does not match iteration")

	// ErrBadCommand indicates a pair_coeff command that cannot be parsed.
	ErrBadCommand = errors.New("force: malformed pair_coeff command")
)

// IndexError reports an index that fell outside [0, Len).
type IndexError struct {
	Field string
	Index int
	Len   int
	// Particle is the local particle whose row was being evaluated, or -1
	// when the error comes from configuration.
	Particle int
	Wrapped  error
}

func (e *IndexError) Error() string {
	if e.Particle < 0 {
		return fmt.Sprintf("%v: %s %d not in [0, %d)", e.Wrapped, e.Field, e.Index, e.Len)
	}
	return fmt.Sprintf("%v: %s %d not in [0, %d) (particle %d)", e.Wrapped, e.Field, e.Index, e.Len, e.Particle)
}

func (e *IndexError) Unwrap() error {
	return e.Wrapped
}

func typeError(particle, typ, ntypes int) error {
	return &IndexError{Field: "type", Index: typ, Len: ntypes, Particle: particle, Wrapped: ErrTypeOutOfRange}
}
