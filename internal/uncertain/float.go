package uncertain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 that survives JSON. NaN and the infinities are encoded
// as the strings "NaN", "+Inf" and "-Inf", which a diverged run produces.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return json.Marshal(strconv.FormatFloat(x, 'g', -1, 64))
	}
	return json.Marshal(x)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("uncertain: invalid float %q: %w", s, err)
		}
		*f = Float(x)
		return nil
	}
	var x float64
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	*f = Float(x)
	return nil
}

// Floats converts a slice for encoding.
func Floats(xs []float64) []Float {
	if xs == nil {
		return nil
	}
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Float64s converts a decoded slice back.
func Float64s(fs []Float) []float64 {
	if fs == nil {
		return nil
	}
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(f)
	}
	return out
}

type quantileJSON struct {
	Level Float `json:"level"`
	Value Float `json:"value"`
}

func (q Quantile) MarshalJSON() ([]byte, error) {
	return json.Marshal(quantileJSON{Level: Float(q.Level), Value: Float(q.Value)})
}

func (q *Quantile) UnmarshalJSON(b []byte) error {
	var aux quantileJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*q = Quantile{Level: float64(aux.Level), Value: float64(aux.Value)}
	return nil
}

type summaryJSON struct {
	Mean      Float      `json:"mean"`
	StdDev    Float      `json:"stddev"`
	Min       Float      `json:"min"`
	Max       Float      `json:"max"`
	Samples   int        `json:"samples"`
	Quantiles []Quantile `json:"quantiles,omitempty"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		Mean:      Float(s.Mean),
		StdDev:    Float(s.StdDev),
		Min:       Float(s.Min),
		Max:       Float(s.Max),
		Samples:   s.Samples,
		Quantiles: s.Quantiles,
	})
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	var aux summaryJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Summary{
		Mean:      float64(aux.Mean),
		StdDev:    float64(aux.StdDev),
		Min:       float64(aux.Min),
		Max:       float64(aux.Max),
		Samples:   aux.Samples,
		Quantiles: aux.Quantiles,
	}
	return nil
}
