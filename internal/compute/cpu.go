package compute

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const DefaultMinChunk = 16

type CPUBackend struct {
	workers int
	// MinChunk is the smallest number of indices handed to one goroutine.
	MinChunk int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{
		workers:  workers,
		MinChunk: DefaultMinChunk,
	}
}

func (c *CPUBackend) Name() string     { return "cpu" }
func (c *CPUBackend) Concurrent() bool { return c.workers > 1 }
func (c *CPUBackend) Workers() int     { return c.workers }

func (c *CPUBackend) ParallelFor(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	minChunk := c.MinChunk
	if minChunk < 1 {
		minChunk = 1
	}

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		return serialFor(0, n, fn)
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		start := start
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			return serialFor(start, end, fn)
		})
	}

	return g.Wait()
}
