// Package compute provides execution backends for data-parallel loops.
//
// A [Backend] runs one independent work item per index over [0, n) and
// returns only after every item has finished:
//
//   - serial: a single goroutine, indices in order
//   - cpu: chunked across runtime.NumCPU() goroutines (or a fixed count)
//
// # Accumulation
//
// Work items that add into shared targets must know whether other items can
// run at the same time. [Backend.Concurrent] reports this, so callers pick
// atomic adds only where they are needed:
//
//	b := compute.GetBackend()
//	err := b.ParallelFor(n, func(i int) error {
//	    // ...
//	    return nil
//	})
//
// The first error returned by a work item is returned by ParallelFor once all
// work items have stopped.
package compute
