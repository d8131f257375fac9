// Package telemetry records Prometheus metrics about simulation runs.
//
// Runs are one-shot batch jobs, so metrics are not scraped over HTTP; they
// are written in the text exposition format to a file that a node exporter
// textfile collector can pick up.
//
// Metrics exposed:
//   - sirsim_run_seconds: Histogram of integration wall time
//   - sirsim_steps_total: Counter of integration steps taken
//   - sirsim_domain_warnings_total: Counter of trajectory entries outside [0, 1]
//   - sirsim_final_fraction: Gauge of final compartment statistics
//   - sirsim_errors_total: Counter of failed runs by reason
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

// Recorder holds the run metrics on a private registry.
type Recorder struct {
	registry       *prometheus.Registry
	RunSeconds     prometheus.Histogram
	StepsTotal     prometheus.Counter
	DomainWarnings prometheus.Counter
	FinalFraction  *prometheus.GaugeVec
	ErrorsTotal    *prometheus.CounterVec
}

// New creates a recorder whose metrics carry the model label.
func New(model string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"model": model}

	return &Recorder{
		registry: reg,
		RunSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "sirsim_run_seconds",
			Help:        "Wall time spent integrating a run",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "sirsim_steps_total",
			Help:        "Integration steps taken",
			ConstLabels: labels,
		}),
		DomainWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name:        "sirsim_domain_warnings_total",
			Help:        "Trajectory entries with a mean fraction outside [0, 1]",
			ConstLabels: labels,
		}),
		FinalFraction: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "sirsim_final_fraction",
			Help:        "Final compartment fraction statistics",
			ConstLabels: labels,
		}, []string{"compartment", "stat"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "sirsim_errors_total",
			Help:        "Failed runs by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordRun records a completed run.
func (r *Recorder) RecordRun(seconds float64, res *sim.Result, levels []float64) {
	r.RunSeconds.Observe(seconds)
	r.StepsTotal.Add(float64(res.Trajectory.Len() - 1))
	r.DomainWarnings.Add(res.Metrics["domain_violations"])

	_, final := res.Trajectory.Final()
	compartments := map[string]uncertain.Value{
		"susceptible": final.S,
		"infected":    final.I,
		"recovered":   final.R,
	}
	for name, v := range compartments {
		r.FinalFraction.WithLabelValues(name, "mean").Set(v.Mean())
		r.FinalFraction.WithLabelValues(name, "stddev").Set(v.StdDev())
		for _, p := range levels {
			r.FinalFraction.WithLabelValues(name, uncertain.FormatQuantileLevel(p)).Set(v.Quantile(p))
		}
	}
}

// RecordError increments the error counter.
func (r *Recorder) RecordError(reason string) {
	r.ErrorsTotal.WithLabelValues(reason).Inc()
}

// WriteFile writes all metrics to path atomically.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
