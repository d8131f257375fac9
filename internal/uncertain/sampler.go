package uncertain

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSamples is the sample count used when none is configured.
const DefaultSamples = 2048

// Sampler draws Values from Specs. All distributions it produces share the
// same sample count so they can be combined. A Sampler is not safe for
// concurrent use.
type Sampler struct {
	n   int
	src rand.Source
}

// NewSampler returns a sampler drawing n samples per distribution from a
// PCG stream seeded with seed. n < 1 falls back to DefaultSamples.
func NewSampler(n int, seed uint64) *Sampler {
	if n < 1 {
		n = DefaultSamples
	}
	return &Sampler{n: n, src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (s *Sampler) N() int { return s.n }

// Sample validates spec and draws a Value from it.
func (s *Sampler) Sample(spec Spec) (Value, error) {
	if err := spec.Validate(); err != nil {
		return Value{}, err
	}
	if spec.IsPoint() {
		return Point(spec.Expected()), nil
	}

	var dist interface{ Rand() float64 }
	switch spec.Kind {
	case KindGaussian:
		dist = distuv.Normal{Mu: spec.Mean, Sigma: spec.StdDev, Src: s.src}
	case KindUniform:
		dist = distuv.Uniform{Min: spec.Low, Max: spec.High, Src: s.src}
	case KindGamma:
		dist = distuv.Gamma{Alpha: spec.Shape, Beta: 1 / spec.Scale, Src: s.src}
	}

	samples := make([]float64, s.n)
	for i := range samples {
		samples[i] = dist.Rand()
	}
	return Value{samples: samples}, nil
}

// MustSample is Sample for specs known to be valid.
func (s *Sampler) MustSample(spec Spec) Value {
	v, err := s.Sample(spec)
	if err != nil {
		panic(err)
	}
	return v
}
