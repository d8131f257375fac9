// Package uncertain provides scalar values that may carry a probability
// distribution instead of a single number.
//
// A [Value] is either a point or an empirical distribution represented by a
// fixed number of Monte Carlo samples:
//
//   - [Point]: ordinary real number
//   - [FromSamples]: distribution given by its samples
//   - [Sampler]: draws values from a [Spec] (gaussian, uniform, gamma, point)
//
// # Arithmetic
//
// Add, Sub and Mul behave as real arithmetic on points. A point combined with
// a distribution is broadcast over every sample. Two distributions combine
// sample by sample, so quantities derived from the same draws stay
// correlated:
//
//	s := sampler.MustSample(uncertain.Gaussian(0.75, 0.01))
//	i := sampler.MustSample(uncertain.Gaussian(0.15, 0.01))
//	total := s.Add(i)
//	fmt.Println(total.Mean(), total.StdDev())
//
// Values are immutable; every operation returns a new Value.
package uncertain
