package export

import (
	"encoding/json"

	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

// Band is the condensed form of one uncertain compartment value.
type Band struct {
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"stddev"`
	Quantiles []float64 `json:"quantiles,omitempty"`
}

type bandJSON struct {
	Mean      uncertain.Float   `json:"mean"`
	StdDev    uncertain.Float   `json:"stddev"`
	Quantiles []uncertain.Float `json:"quantiles,omitempty"`
}

func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(bandJSON{
		Mean:      uncertain.Float(b.Mean),
		StdDev:    uncertain.Float(b.StdDev),
		Quantiles: uncertain.Floats(b.Quantiles),
	})
}

func (b *Band) UnmarshalJSON(data []byte) error {
	var aux bandJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Band{
		Mean:      float64(aux.Mean),
		StdDev:    float64(aux.StdDev),
		Quantiles: uncertain.Float64s(aux.Quantiles),
	}
	return nil
}

func newBand(v uncertain.Value, levels []float64) Band {
	b := Band{Mean: v.Mean(), StdDev: v.StdDev()}
	if len(levels) == 0 {
		return b
	}
	b.Quantiles = make([]float64, len(levels))
	for i, p := range levels {
		b.Quantiles[i] = v.Quantile(p)
	}
	return b
}

// Series is a trajectory reduced to per-entry bands. It is what gets stored
// and what plots and replays read back.
type Series struct {
	Levels []float64 `json:"levels"`
	Times  []float64 `json:"times"`
	S      []Band    `json:"s"`
	I      []Band    `json:"i"`
	R      []Band    `json:"r"`
}

func NewSeries(tr *sim.Trajectory, levels []float64) *Series {
	n := tr.Len()
	s := &Series{
		Levels: append([]float64(nil), levels...),
		Times:  tr.Times(),
		S:      make([]Band, n),
		I:      make([]Band, n),
		R:      make([]Band, n),
	}
	for k := 0; k < n; k++ {
		x := tr.State(k)
		s.S[k] = newBand(x.S, levels)
		s.I[k] = newBand(x.I, levels)
		s.R[k] = newBand(x.R, levels)
	}
	return s
}

func (s *Series) Len() int { return len(s.Times) }

// Means returns (S, I, R) means per entry.
func (s *Series) Means() [][3]float64 {
	out := make([][3]float64, len(s.Times))
	for k := range s.Times {
		out[k] = [3]float64{s.S[k].Mean, s.I[k].Mean, s.R[k].Mean}
	}
	return out
}

// Column returns the mean curve of one compartment, 0 for S, 1 for I, 2 for R.
func (s *Series) Column(c int) []float64 {
	bands := [3][]Band{s.S, s.I, s.R}[c]
	out := make([]float64, len(bands))
	for k, b := range bands {
		out[k] = b.Mean
	}
	return out
}

// Final returns the bands of the terminal entry.
func (s *Series) Final() (t float64, S, I, R Band) {
	last := len(s.Times) - 1
	return s.Times[last], s.S[last], s.I[last], s.R[last]
}
