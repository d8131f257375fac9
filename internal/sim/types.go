package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/sirsim/internal/uncertain"
)

// Params holds the rate constants of a run. Birth and Death are ignored by
// models without vital dynamics; their zero value is the point 0.
type Params struct {
	Beta  uncertain.Value // susceptible to infected
	Gamma uncertain.Value // infected to recovered
	Birth uncertain.Value
	Death uncertain.Value
}

// State holds the compartment fractions at one instant.
type State struct {
	S uncertain.Value
	I uncertain.Value
	R uncertain.Value
}

func (s State) Total() uncertain.Value {
	return s.S.Add(s.I).Add(s.R)
}

// Axpy returns s + k*d componentwise.
func (s State) Axpy(k float64, d State) State {
	return State{
		S: s.S.Add(d.S.Scale(k)),
		I: s.I.Add(d.I.Scale(k)),
		R: s.R.Add(d.R.Scale(k)),
	}
}

// Means returns the mean of each compartment.
func (s State) Means() [3]float64 {
	return [3]float64{s.S.Mean(), s.I.Mean(), s.R.Mean()}
}

func (s State) IsFinite() bool {
	return s.S.IsFinite() && s.I.IsFinite() && s.R.IsFinite()
}

func (s State) String() string {
	return fmt.Sprintf("S=%v I=%v R=%v", s.S, s.I, s.R)
}

// Model is the right-hand side of the compartmental ODE.
type Model interface {
	Name() string
	Derivative(x State, p Params) State
}

// Integrator advances a state by one step of size dt. Integrator.Step over a
// Model is the vector field of a run; it must not mutate x.
type Integrator interface {
	Step(m Model, x State, p Params, dt float64) State
}

// Metric accumulates a scalar over every recorded trajectory entry.
type Metric interface {
	Name() string
	Observe(t float64, x State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(k int, t float64, x State)
}

// stepTolerance absorbs floating point noise in (final-initial)/step so that
// grids like 30/0.5 or 1/0.1 are recognised as whole.
const stepTolerance = 1e-9

// Config is the time grid of a run.
type Config struct {
	InitialTime float64 `json:"initial_time"`
	FinalTime   float64 `json:"final_time"`
	StepSize    float64 `json:"step_size"`
}

func DefaultConfig() Config {
	return Config{
		InitialTime: 0.0,
		FinalTime:   30.0,
		StepSize:    0.5,
	}
}

func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.StepSize) || math.IsInf(c.StepSize, 0):
		return &ConfigError{Field: "step size", Value: c.StepSize, Reason: "must be finite"}
	case c.StepSize <= 0:
		return &ConfigError{Field: "step size", Value: c.StepSize, Reason: "must be positive"}
	case math.IsNaN(c.InitialTime) || math.IsInf(c.InitialTime, 0):
		return &ConfigError{Field: "initial time", Value: c.InitialTime, Reason: "must be finite"}
	case math.IsNaN(c.FinalTime) || math.IsInf(c.FinalTime, 0):
		return &ConfigError{Field: "final time", Value: c.FinalTime, Reason: "must be finite"}
	case c.FinalTime <= c.InitialTime:
		return &ConfigError{Field: "final time", Value: c.FinalTime, Reason: fmt.Sprintf("must be after initial time %v", c.InitialTime)}
	}
	return nil
}

// StepCount is the number of trajectory entries, ceil((final-initial)/step)+1.
// The last entry may lie past FinalTime when the span is not a whole number
// of steps.
func (c Config) StepCount() (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	n := (c.FinalTime - c.InitialTime) / c.StepSize
	if r := math.Round(n); math.Abs(n-r) <= stepTolerance*math.Max(1, r) {
		n = r
	}
	if n >= math.MaxInt32 {
		return 0, &ConfigError{Field: "step size", Value: c.StepSize, Reason: "yields too many steps"}
	}

	count := int(math.Ceil(n)) + 1
	if count < 2 {
		return 0, &ConfigError{Field: "step size", Value: c.StepSize, Reason: "yields fewer than two entries"}
	}
	return count, nil
}
