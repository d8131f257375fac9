package integrators

import "github.com/san-kum/sirsim/internal/sim"

// Euler is the explicit forward Euler method, x' = x + dt*f(x).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m sim.Model, x sim.State, p sim.Params, dt float64) sim.State {
	return x.Axpy(dt, m.Derivative(x, p))
}
