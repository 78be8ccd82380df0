// Package dynamo provides core primitives for numerical simulation of
// ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: single-step numerical method interface
//   - [Solver]: drives a System across a sequence of time samples
//
// # Example
//
//	sys := pendulum.MustNew(pendulum.DefaultParams())
//	solver := dynamo.NewSolver(sys, integrators.NewRK4(), dynamo.DefaultOptions())
//	traj, _ := solver.Solve(x0, times)
//
// # Thread Safety
//
// Solver instances are NOT thread-safe. Independent trajectories should
// each use their own Solver; they share no state and may run in parallel.
package dynamo
