package metrics

import (
	"log/slog"

	"github.com/san-kum/sirsim/internal/sim"
)

// Domain counts trajectory entries whose mean fractions leave [0, 1], NaN
// included. Explicit Euler does not keep fractions in range, so this is
// reported, never enforced.
type Domain struct {
	name       string
	violations int
	samples    int
	firstStep  int
	firstTime  float64
}

func NewDomain() *Domain {
	return &Domain{name: "domain_violations", firstStep: -1}
}

func (d *Domain) Name() string {
	return d.name
}

func (d *Domain) Observe(t float64, x sim.State) {
	d.samples++
	for _, v := range x.Means() {
		if !(v >= 0 && v <= 1) {
			if d.firstStep < 0 {
				d.firstStep = d.samples - 1
				d.firstTime = t
			}
			d.violations++
			break
		}
	}
}

func (d *Domain) Value() float64 {
	return float64(d.violations)
}

// First returns the index and time of the first out-of-range entry.
func (d *Domain) First() (step int, t float64, ok bool) {
	return d.firstStep, d.firstTime, d.firstStep >= 0
}

// Warn logs a warning when any entry was out of range.
func (d *Domain) Warn(logger *slog.Logger) {
	step, t, ok := d.First()
	if !ok {
		return
	}
	logger.Warn("compartment fractions left [0, 1]; explicit Euler does not preserve positivity, consider a smaller step",
		"entries", d.violations,
		"first_step", step,
		"first_time", t,
	)
}

func (d *Domain) Reset() {
	d.violations = 0
	d.samples = 0
	d.firstStep = -1
	d.firstTime = 0
}
