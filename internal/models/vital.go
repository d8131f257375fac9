package models

import "github.com/san-kum/sirsim/internal/sim"

// VitalDynamics is the SIR model with births and deaths:
//
//	dS/dt = b - d*S - β*S*I
//	dI/dt = β*S*I - (γ + d)*I
//	dR/dt = γ*I - d*R
type VitalDynamics struct{}

func NewVitalDynamics() *VitalDynamics { return &VitalDynamics{} }

func (m *VitalDynamics) Name() string { return "vital" }

// Derivative calculates the SIR derivatives with vital dynamics.
func (m *VitalDynamics) Derivative(x sim.State, p sim.Params) sim.State {
	infection := p.Beta.Mul(x.S).Mul(x.I)
	return sim.State{
		S: p.Birth.Sub(p.Death.Mul(x.S)).Sub(infection),
		I: infection.Sub(p.Gamma.Add(p.Death).Mul(x.I)),
		R: p.Gamma.Mul(x.I).Sub(p.Death.Mul(x.R)),
	}
}
