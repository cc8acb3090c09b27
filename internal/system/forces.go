package system

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Forces is a per-particle force accumulator.
type Forces []Vec3

// Add adds v into particle i. Not safe if another goroutine writes i.
func (f Forces) Add(i int, v Vec3) {
	f[i][0] += v[0]
	f[i][1] += v[1]
	f[i][2] += v[2]
}

// AtomicAdd adds v into particle i without losing concurrent contributions
// to the same particle. Each component is updated independently.
func (f Forces) AtomicAdd(i int, v Vec3) {
	atomicAddFloat64(&f[i][0], v[0])
	atomicAddFloat64(&f[i][1], v[1])
	atomicAddFloat64(&f[i][2], v[2])
}

func (f Forces) Zero() {
	for i := range f {
		f[i] = Vec3{}
	}
}

func atomicAddFloat64(addr *float64, delta float64) {
	p := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(p)
		sum := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(p, old, sum) {
			return
		}
	}
}
