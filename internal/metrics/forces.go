package metrics

import (
	"math"

	"github.com/san-kum/ljforce/internal/system"
)

// Summary describes one force buffer.
type Summary struct {
	Count  int
	Net    system.Vec3
	MaxMag float64
	RMS    float64
	// Invalid counts particles with a NaN or Inf component.
	Invalid int
}

func Summarize(f system.Forces) Summary {
	s := Summary{Count: len(f)}
	sumSq := 0.0
	for _, v := range f {
		if !v.IsValid() {
			s.Invalid++
			continue
		}
		s.Net = s.Net.Add(v)
		m2 := v.Dot(v)
		sumSq += m2
		if m := math.Sqrt(m2); m > s.MaxMag {
			s.MaxMag = m
		}
	}
	if valid := s.Count - s.Invalid; valid > 0 {
		s.RMS = math.Sqrt(sumSq / float64(valid))
	}
	return s
}

// Map flattens the summary for storage and printing.
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		"particles": float64(s.Count),
		"net_fx":    s.Net[0],
		"net_fy":    s.Net[1],
		"net_fz":    s.Net[2],
		"net":       s.Net.Norm(),
		"max_force": s.MaxMag,
		"rms_force": s.RMS,
		"invalid":   float64(s.Invalid),
	}
}

// RMSForce averages the RMS force over observed steps.
type RMSForce struct {
	name    string
	samples int
	total   float64
}

func NewRMSForce() *RMSForce {
	return &RMSForce{name: "mean_rms_force"}
}

func (r *RMSForce) Name() string { return r.name }

func (r *RMSForce) Observe(f system.Forces) {
	r.total += Summarize(f).RMS
	r.samples++
}

func (r *RMSForce) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.total / float64(r.samples)
}

func (r *RMSForce) Reset() {
	r.total = 0
	r.samples = 0
}
