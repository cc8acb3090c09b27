// Package system holds the per-particle state the force kernels read and
// write: positions, integer types and a force accumulator.
//
// The accumulator is additive. Kernels only ever add into it, and the caller
// zeroes it with [System.ZeroForces] when the previous step's forces must not
// carry over.
package system
