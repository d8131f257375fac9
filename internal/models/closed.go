package models

import "github.com/san-kum/sirsim/internal/sim"

// Closed is the SIR model of a fixed population:
//
//	dS/dt = -β*S*I
//	dI/dt = β*S*I - γ*I
//	dR/dt = γ*I
//
// The total S+I+R is conserved by the exact flow.
type Closed struct{}

func NewClosed() *Closed { return &Closed{} }

func (m *Closed) Name() string { return "closed" }

// Derivative calculates the SIR derivatives; birth and death rates are ignored.
func (m *Closed) Derivative(x sim.State, p sim.Params) sim.State {
	infection := p.Beta.Mul(x.S).Mul(x.I)
	recovery := p.Gamma.Mul(x.I)
	return sim.State{
		S: infection.Neg(),
		I: infection.Sub(recovery),
		R: recovery,
	}
}
