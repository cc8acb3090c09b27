package integrators

import (
	"errors"
	"fmt"

	"github.com/san-kum/ljforce/internal/system"
)

var ErrInvalidStep = errors.New("integrators: time step and mass must be positive")

// ForceFunc recomputes sys.F from the current positions.
type ForceFunc func() error

// Verlet is a velocity-Verlet integrator over the local particles of a
// system. All particles share one mass.
type Verlet struct {
	dt   float64
	mass float64
	acc  []system.Vec3
}

func NewVerlet(dt, mass float64) (*Verlet, error) {
	if dt <= 0 || mass <= 0 {
		return nil, fmt.Errorf("%w: dt=%g mass=%g", ErrInvalidStep, dt, mass)
	}
	return &Verlet{dt: dt, mass: mass}, nil
}

func (v *Verlet) Dt() float64   { return v.dt }
func (v *Verlet) Mass() float64 { return v.mass }

func (v *Verlet) ensureScratch(n int) {
	if len(v.acc) != n {
		v.acc = make([]system.Vec3, n)
	}
}

// Step advances positions and velocities by dt. sys.F must hold the forces
// at the current positions; on return it holds the forces at the new ones.
// Positions are left advanced if eval fails.
func (v *Verlet) Step(sys *system.System, vel []system.Vec3, eval ForceFunc) error {
	n := sys.NLocal
	if len(vel) < n {
		return fmt.Errorf("integrators: %d local particles but %d velocities", n, len(vel))
	}
	v.ensureScratch(n)

	invMass := 1.0 / v.mass
	halfDt := 0.5 * v.dt
	dt2 := v.dt * v.dt

	for i := 0; i < n; i++ {
		a := sys.F[i].Scale(invMass)
		v.acc[i] = a
		sys.X[i] = sys.X[i].Add(vel[i].Scale(v.dt)).Add(a.Scale(0.5 * dt2))
	}

	if err := eval(); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		aNew := sys.F[i].Scale(invMass)
		vel[i] = vel[i].Add(v.acc[i].Add(aNew).Scale(halfDt))
	}
	return nil
}

// KineticEnergy returns sum(m v^2 / 2) over vel.
func KineticEnergy(vel []system.Vec3, mass float64) float64 {
	ke := 0.0
	for _, u := range vel {
		ke += u.Dot(u)
	}
	return 0.5 * mass * ke
}
