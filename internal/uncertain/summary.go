package uncertain

// Quantile is one empirical quantile of a Value.
type Quantile struct {
	Level float64 `json:"level"`
	Value float64 `json:"value"`
}

// Summary condenses a Value for reporting and storage.
type Summary struct {
	Mean      float64    `json:"mean"`
	StdDev    float64    `json:"stddev"`
	Min       float64    `json:"min"`
	Max       float64    `json:"max"`
	Samples   int        `json:"samples"`
	Quantiles []Quantile `json:"quantiles,omitempty"`
}

// Summarize computes the summary with the requested quantile levels, kept in
// the order given.
func (v Value) Summarize(levels ...float64) Summary {
	s := Summary{
		Mean:    v.Mean(),
		StdDev:  v.StdDev(),
		Samples: v.Len(),
	}
	if v.samples == nil {
		s.Min, s.Max = v.point, v.point
		for _, p := range levels {
			s.Quantiles = append(s.Quantiles, Quantile{Level: p, Value: v.point})
		}
		return s
	}

	sorted := v.sorted()
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	for _, p := range levels {
		s.Quantiles = append(s.Quantiles, Quantile{Level: p, Value: quantileSorted(p, sorted)})
	}
	return s
}

// At returns the quantile recorded for level p.
func (s Summary) At(p float64) (float64, bool) {
	for _, q := range s.Quantiles {
		if q.Level == p {
			return q.Value, true
		}
	}
	return 0, false
}
