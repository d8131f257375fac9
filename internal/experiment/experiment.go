package experiment

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/metrics"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

// Experiment is one configured run: sampled inputs plus a simulator.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	domain    *metrics.Domain
	x0        sim.State
	params    sim.Params
	grid      sim.Config
	levels    []float64
	samples   int
	logger    *slog.Logger
}

// New validates cfg, samples every uncertain input and wires the simulator.
// Configuration problems are reported before anything is sampled.
func New(cfg *config.Config, registry *Registry, logger *slog.Logger) (*Experiment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := registry.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	levels, err := cfg.QuantileLevels()
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:       cfg,
		simulator: sim.New(model, integ),
		grid:      cfg.SimConfig(),
		levels:    levels,
		logger:    logger,
	}

	ms, domain := registry.DefaultMetrics()
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	e.domain = domain

	if err := e.sample(uncertain.NewSampler(cfg.Samples, cfg.Seed)); err != nil {
		return nil, err
	}
	return e, nil
}

// sample draws the inputs in a fixed order so a seed reproduces a run.
func (e *Experiment) sample(s *uncertain.Sampler) error {
	values := make([]uncertain.Value, 0, 7)
	for _, in := range e.cfg.Inputs() {
		v, err := s.Sample(in.Spec)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", sim.ErrConfiguration, in.Name, err)
		}
		e.logger.Debug("sampled input", "input", in.Name, "spec", in.Spec.String(), "mean", v.Mean(), "stddev", v.StdDev())
		values = append(values, v)
		e.samples = max(e.samples, v.Len())
	}

	e.params = sim.Params{Beta: values[0], Gamma: values[1], Birth: values[2], Death: values[3]}
	e.x0 = sim.State{S: values[4], I: values[5], R: values[6]}
	return nil
}

func (e *Experiment) Run() (*sim.Result, error) {
	res, err := e.simulator.Run(e.x0, e.params, e.grid)
	if err != nil {
		return nil, err
	}
	e.domain.Warn(e.logger)
	return res, nil
}

// AddObserver attaches an observer to the underlying simulator.
func (e *Experiment) AddObserver(o sim.Observer) { e.simulator.AddObserver(o) }

// Samples is the number of Monte Carlo samples carried by the run, 1 when
// every input is a point value.
func (e *Experiment) Samples() int { return e.samples }

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Grid() sim.Config          { return e.grid }
func (e *Experiment) InitialState() sim.State   { return e.x0 }
func (e *Experiment) Params() sim.Params        { return e.params }
func (e *Experiment) QuantileLevels() []float64 { return e.levels }
func (e *Experiment) ModelName() string         { return e.simulator.Model().Name() }
