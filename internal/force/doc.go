// Package force evaluates short-range 12-6 Lennard-Jones pair forces over a
// neighbor list.
//
// The package is built from three pieces:
//
//   - [ParamTable]: symmetric per-type-pair coefficients, written through a
//     staging buffer and published as a whole
//   - [Iteration]: the pair traversal, fixed when the kernel is created
//   - [LJ]: the kernel, one work item per local particle on a
//     [compute.Backend]
//
// # Example
//
//	lj := force.New(1, force.NeighHalf, force.WithBackend(compute.NewCPUBackend(0)))
//	_ = lj.InitCoeff("pair_coeff 1 1 1.0 1.0 2.5 1")
//	sys.ZeroForces()
//	err := lj.Compute(sys, nl)
//
// # Traversal
//
// With [NeighFull] every interacting pair appears in both particles' rows and
// each work item writes only its own accumulator. With [NeighHalf] each pair
// appears once and the work item also subtracts the pair force from the
// neighbor, so both writes are atomic whenever the backend runs work items
// concurrently.
//
// # Accumulation
//
// Compute never clears the force buffer. Callers zero it before the first
// contribution of a step.
package force
