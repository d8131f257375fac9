package uncertain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Value is a point or an empirical distribution. The zero Value is the point 0.
type Value struct {
	point   float64
	samples []float64
}

func Point(x float64) Value {
	return Value{point: x}
}

// FromSamples builds a distribution from samples. The slice is copied. An
// empty slice yields the point 0 and a single sample yields a point.
func FromSamples(samples []float64) Value {
	switch len(samples) {
	case 0:
		return Value{}
	case 1:
		return Point(samples[0])
	}
	c := make([]float64, len(samples))
	copy(c, samples)
	return Value{samples: c}
}

func (v Value) IsPoint() bool { return v.samples == nil }

// Len is the number of samples, 1 for a point.
func (v Value) Len() int {
	if v.samples == nil {
		return 1
	}
	return len(v.samples)
}

// Samples returns a copy of the samples, or a one-element slice for a point.
func (v Value) Samples() []float64 {
	if v.samples == nil {
		return []float64{v.point}
	}
	c := make([]float64, len(v.samples))
	copy(c, v.samples)
	return c
}

func (v Value) Add(w Value) Value {
	return combine(v, w, func(a, b float64) float64 { return a + b })
}

func (v Value) Sub(w Value) Value {
	return combine(v, w, func(a, b float64) float64 { return a - b })
}

func (v Value) Mul(w Value) Value {
	return combine(v, w, func(a, b float64) float64 { return a * b })
}

func (v Value) Scale(k float64) Value {
	return v.Mul(Point(k))
}

func (v Value) AddScalar(k float64) Value {
	return v.Add(Point(k))
}

func (v Value) Neg() Value {
	return v.Scale(-1)
}

// combine panics when both operands are distributions of different sizes:
// values drawn by one Sampler always share a sample count.
func combine(v, w Value, op func(a, b float64) float64) Value {
	switch {
	case v.samples == nil && w.samples == nil:
		return Value{point: op(v.point, w.point)}
	case v.samples == nil:
		out := make([]float64, len(w.samples))
		for i, b := range w.samples {
			out[i] = op(v.point, b)
		}
		return Value{samples: out}
	case w.samples == nil:
		out := make([]float64, len(v.samples))
		for i, a := range v.samples {
			out[i] = op(a, w.point)
		}
		return Value{samples: out}
	}

	if len(v.samples) != len(w.samples) {
		panic(fmt.Sprintf("uncertain: sample count mismatch (%d vs %d)", len(v.samples), len(w.samples)))
	}
	out := make([]float64, len(v.samples))
	for i := range v.samples {
		out[i] = op(v.samples[i], w.samples[i])
	}
	return Value{samples: out}
}

func (v Value) Mean() float64 {
	if v.samples == nil {
		return v.point
	}
	return stat.Mean(v.samples, nil)
}

// StdDev is the sample standard deviation, 0 for a point.
func (v Value) StdDev() float64 {
	if v.samples == nil {
		return 0
	}
	return stat.StdDev(v.samples, nil)
}

// Quantile returns the empirical p-quantile, p in [0, 1].
func (v Value) Quantile(p float64) float64 {
	if v.samples == nil {
		return v.point
	}
	return quantileSorted(p, v.sorted())
}

func quantileSorted(p float64, sorted []float64) float64 {
	if math.IsNaN(p) {
		return math.NaN()
	}
	return stat.Quantile(clamp01(p), stat.Empirical, sorted, nil)
}

func (v Value) Min() float64 {
	if v.samples == nil {
		return v.point
	}
	return v.sorted()[0]
}

func (v Value) Max() float64 {
	if v.samples == nil {
		return v.point
	}
	s := v.sorted()
	return s[len(s)-1]
}

func (v Value) sorted() []float64 {
	s := v.Samples()
	sort.Float64s(s)
	return s
}

// IsFinite reports whether every sample is neither NaN nor infinite.
func (v Value) IsFinite() bool {
	if v.samples == nil {
		return !math.IsNaN(v.point) && !math.IsInf(v.point, 0)
	}
	for _, x := range v.samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// String formats the mean, followed by the standard deviation for
// distributions.
func (v Value) String() string {
	if v.samples == nil {
		return fmt.Sprintf("%f", v.point)
	}
	return fmt.Sprintf("%f±%f", v.Mean(), v.StdDev())
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
