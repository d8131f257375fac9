// Package models provides compartmental epidemic models.
//
// Each model implements [sim.Model], returning the right-hand side of its
// ODE system:
//
//   - [VitalDynamics]: SIR with births and deaths
//   - [Closed]: SIR without births and deaths
//
// Rates may be uncertain; the derivative is evaluated with the
// uncertainty-propagating arithmetic of [uncertain.Value].
package models
