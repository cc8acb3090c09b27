package compute

import (
	"fmt"
	"runtime"
)

type Backend interface {
	Name() string
	// Concurrent reports whether work items for different indices may run at
	// the same time.
	Concurrent() bool
	Workers() int
	ParallelFor(n int, fn func(i int) error) error
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend(0)
}

func SetBackend(b Backend) {
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend returns the cpu backend unless only one worker is
// available or requested.
func AutoSelectBackend(workers int) Backend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return NewSerialBackend()
	}
	return NewCPUBackend(workers)
}

func New(name string, workers int) (Backend, error) {
	switch name {
	case "", "auto":
		return AutoSelectBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	case "cpu":
		return NewCPUBackend(workers), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

func ListBackends() []string {
	return []string{"auto", "cpu", "serial"}
}

func serialFor(start, end int, fn func(i int) error) error {
	for i := start; i < end; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
