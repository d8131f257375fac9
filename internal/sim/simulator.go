package sim

type Simulator struct {
	model      Model
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(model Model, integrator Integrator) *Simulator {
	return &Simulator{
		model:      model,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() Model { return s.model }

// Step is the vector field: one integrator step of the model.
func (s *Simulator) Step(x State, p Params, dt float64) State {
	return s.integrator.Step(s.model, x, p, dt)
}

// Run integrates from x0 over the grid of cfg. The configuration is checked
// before anything is allocated. Steps run strictly in order; there is no
// early exit.
func (s *Simulator) Run(x0 State, p Params, cfg Config) (*Result, error) {
	steps, err := cfg.StepCount()
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	tr := newTrajectory(steps)
	tr.append(cfg.InitialTime, x0)
	s.notify(0, cfg.InitialTime, x0)

	for k := 0; k < steps-1; k++ {
		t, x := tr.At(k)
		next := s.Step(x, p, cfg.StepSize)
		tr.append(t+cfg.StepSize, next)
		s.notify(k+1, t+cfg.StepSize, next)
	}

	result := &Result{
		Trajectory: tr,
		Metrics:    make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) notify(k int, t float64, x State) {
	for _, m := range s.metrics {
		m.Observe(t, x)
	}
	for _, o := range s.observers {
		o.OnStep(k, t, x)
	}
}
