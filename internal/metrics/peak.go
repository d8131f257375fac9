package metrics

import "github.com/san-kum/sirsim/internal/sim"

// PeakInfected records the largest mean infected fraction.
type PeakInfected struct {
	name    string
	peak    float64
	at      float64
	samples int
}

func NewPeakInfected() *PeakInfected {
	return &PeakInfected{name: "peak_infected"}
}

func (p *PeakInfected) Name() string { return p.name }

func (p *PeakInfected) Observe(t float64, x sim.State) {
	i := x.I.Mean()
	if p.samples == 0 || i > p.peak {
		p.peak = i
		p.at = t
	}
	p.samples++
}

func (p *PeakInfected) Value() float64 { return p.peak }

// Time returns when the peak occurred.
func (p *PeakInfected) Time() float64 { return p.at }

func (p *PeakInfected) Reset() {
	p.peak = 0
	p.at = 0
	p.samples = 0
}

// PeakTime exposes the time of a PeakInfected as its own metric.
type PeakTime struct {
	peak *PeakInfected
}

func NewPeakTime(p *PeakInfected) *PeakTime { return &PeakTime{peak: p} }

func (p *PeakTime) Name() string { return "peak_time" }

// Observe is a no-op; the wrapped PeakInfected does the observing.
func (p *PeakTime) Observe(float64, sim.State) {}

func (p *PeakTime) Value() float64 { return p.peak.Time() }

func (p *PeakTime) Reset() {}
