package pendulum

import (
	"errors"
	"math"
	"testing"

	"github.com/shadyrajab/chaos/internal/dynamo"
	"github.com/shadyrajab/chaos/internal/integrators"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := MustNew(DefaultParams())

	// At rest hanging straight down
	x := dynamo.State{0, 0, 0, 0}
	dx := dp.Derive(x, 0)

	for i, v := range dx {
		if math.Abs(v) > 1e-10 {
			t.Errorf("expected zero derivative component %d at equilibrium, got %g", i, v)
		}
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	dp := MustNew(DefaultParams())

	// Mirrored initial conditions give mirrored accelerations
	x1 := dynamo.State{0.1, 0, 0.1, 0}
	x2 := dynamo.State{-0.1, 0, -0.1, 0}

	dx1 := dp.Derive(x1, 0)
	dx2 := dp.Derive(x2, 0)

	if math.Abs(dx1[Omega1]+dx2[Omega1]) > 1e-12 {
		t.Errorf("expected symmetric alpha1: %g vs %g", dx1[Omega1], dx2[Omega1])
	}
	if math.Abs(dx1[Omega2]+dx2[Omega2]) > 1e-12 {
		t.Errorf("expected symmetric alpha2: %g vs %g", dx1[Omega2], dx2[Omega2])
	}
}

func TestDoublePendulumTimeInvariance(t *testing.T) {
	dp := MustNew(DefaultParams())
	x := dynamo.State{0.7, 0.2, -0.3, 1.1}

	a := dp.Derive(x, 0)
	b := dp.Derive(x, 42.5)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("autonomous system must ignore time: component %d differs", i)
		}
	}
}

func TestParamsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero length", func(p *Params) { p.L1 = 0 }},
		{"negative mass", func(p *Params) { p.M2 = -1 }},
		{"zero gravity", func(p *Params) { p.G = 0 }},
		{"nan length", func(p *Params) { p.L2 = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if _, err := New(p); !errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

// The vector field of a conservative system moves states along level
// sets of the energy: grad E · f(x) = 0 everywhere. A sign slip in the
// equations of motion shows up here without integrating anything.
func TestDerivePowerBalance(t *testing.T) {
	dp := MustNew(DefaultParams())

	states := []dynamo.State{
		{math.Pi / 2, 0, math.Pi / 4, 0},
		{0.7, 0.2, -0.3, 1.1},
		{3.0, -1.5, 2.2, 0.4},
		{0.05, 0, 0.05 * math.Sqrt2, 0},
	}

	const h = 1e-6
	for _, x := range states {
		dx := dp.Derive(x, 0)

		power := 0.0
		for i := range x {
			xp, xm := x.Clone(), x.Clone()
			xp[i] += h
			xm[i] -= h
			power += (dp.Energy(xp) - dp.Energy(xm)) / (2 * h) * dx[i]
		}

		if math.Abs(power) > 1e-5 {
			t.Errorf("dE/dt = %g for state %v, want 0", power, x)
		}
	}
}

func TestEnergyConservation(t *testing.T) {
	dp := MustNew(DefaultParams())
	x0 := dynamo.State{math.Pi / 2, 0, math.Pi / 4, 0}

	solver := dynamo.NewSolver(dp, integrators.NewRK4(), dynamo.Options{MaxDt: 1e-3})
	times, _ := dynamo.UniformTimes(0, 10, 101)

	traj, err := solver.Solve(x0, times)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	e0 := dp.Energy(x0)
	for i, x := range traj.States {
		drift := math.Abs(dp.Energy(x)-e0) / math.Abs(e0)
		if drift > 1e-5 {
			t.Fatalf("energy drift %e at sample %d exceeds bound", drift, i)
		}
	}
}

// Released on the in-phase normal mode with small amplitude, the
// nonlinear pendulum should track the linearized closed-form solution
// over a short horizon.
func TestSmallAngleNormalMode(t *testing.T) {
	p := DefaultParams()
	dp := MustNew(p)

	const amp = 0.02
	slow, _ := p.NormalModes()
	shape := p.SlowModeShape()

	x0 := dynamo.State{amp, 0, amp * shape, 0}
	solver := dynamo.NewSolver(dp, integrators.NewRK4(), dynamo.Options{MaxDt: 1e-3})
	times, _ := dynamo.UniformTimes(0, 2, 201)

	traj, err := solver.Solve(x0, times)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	for i, x := range traj.States {
		want1 := amp * math.Cos(slow*times[i])
		want2 := amp * shape * math.Cos(slow*times[i])

		if math.Abs(x[Theta1]-want1) > 1e-3 {
			t.Fatalf("theta1 deviates from normal mode at t=%.2f: got %g, want %g",
				times[i], x[Theta1], want1)
		}
		if math.Abs(x[Theta2]-want2) > 1e-3 {
			t.Fatalf("theta2 deviates from normal mode at t=%.2f: got %g, want %g",
				times[i], x[Theta2], want2)
		}
	}
}
