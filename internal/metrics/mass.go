package metrics

import (
	"math"

	"github.com/san-kum/sirsim/internal/sim"
)

// MassDrift tracks the largest deviation of the mean population S+I+R from
// its initial value. For the closed model it measures integrator error; with
// vital dynamics it measures population change.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(t float64, x sim.State) {
	total := x.Total().Mean()
	if m.samples == 0 {
		m.initial = total
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(total-m.initial))
}

func (m *MassDrift) Value() float64 {
	return m.maxDrift
}

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
