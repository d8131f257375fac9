// Package sim provides the uncertainty-aware time-stepping core.
//
// The package defines the data model and the fixed-step integration loop:
//
//   - [Params]: rate constants of one run (β, γ, birth, death)
//   - [State]: compartment fractions S, I, R at one instant
//   - [Config]: time grid (initial time, final time, step size)
//   - [Model] and [Integrator]: together they form the vector field
//   - [Simulator]: advances a state over the grid and records a [Trajectory]
//
// # Example
//
//	s := sim.New(models.NewClosed(), integrators.NewEuler())
//	res, err := s.Run(x0, params, sim.Config{InitialTime: 0, FinalTime: 30, StepSize: 0.5})
//	t, final := res.Trajectory.Final()
//
// # Numeric domain
//
// Explicit Euler has no positivity or conservation guarantee. Fractions may
// leave [0, 1] for large steps or extreme parameter draws; the simulator
// neither clamps nor renormalises them.
package sim
