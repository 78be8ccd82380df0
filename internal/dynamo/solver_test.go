package dynamo

import (
	"errors"
	"math"
	"testing"
)

// decay is dx/dt = -x, solution x0 * exp(-t).
type decay struct{}

func (decay) Derive(x State, t float64) State { return State{-x[0]} }
func (decay) StateDim() int                   { return 1 }

// blowUp is dx/dt = x^2, which diverges in finite time from x0 > 0.
type blowUp struct{}

func (blowUp) Derive(x State, t float64) State { return State{x[0] * x[0]} }
func (blowUp) StateDim() int                   { return 1 }

type eulerStep struct{}

func (eulerStep) Step(sys System, x State, t, dt float64) State {
	dx := sys.Derive(x, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestSolverFirstSampleExact(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, DefaultOptions())
	x0 := State{0.12345678901234567}

	traj, err := solver.Solve(x0, []float64{0, 0.5, 1})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if traj.States[0][0] != x0[0] {
		t.Errorf("first sample must equal the initial state exactly: %v vs %v",
			traj.States[0][0], x0[0])
	}
}

func TestSolverAccuracy(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, Options{MaxDt: 1e-4})
	traj, err := solver.Solve(State{1}, []float64{0, 1})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	want := math.Exp(-1)
	if math.Abs(traj.Final()[0]-want) > 1e-3 {
		t.Errorf("expected ~%f, got %f", want, traj.Final()[0])
	}
}

func TestSolverSingleSample(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, DefaultOptions())
	x0 := State{7}

	traj, err := solver.Solve(x0, []float64{3.5})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if traj.Len() != 1 {
		t.Fatalf("expected exactly 1 sample, got %d", traj.Len())
	}
	if traj.States[0][0] != 7 || traj.Times[0] != 3.5 {
		t.Errorf("single-sample trajectory should hold only the initial state")
	}
}

func TestSolverTimeValidation(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, DefaultOptions())

	tests := []struct {
		name  string
		times []float64
	}{
		{"empty", []float64{}},
		{"repeated", []float64{0, 1, 1, 2}},
		{"decreasing", []float64{0, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := solver.Solve(State{1}, tt.times)
			if !errors.Is(err, ErrTimeSamples) {
				t.Errorf("expected ErrTimeSamples, got %v", err)
			}
		})
	}
}

func TestSolverDimensionMismatch(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, DefaultOptions())
	_, err := solver.Solve(State{1, 2}, []float64{0, 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSolverDeterminism(t *testing.T) {
	times, _ := UniformTimes(0, 5, 100)

	run := func() *Trajectory {
		solver := NewSolver(decay{}, eulerStep{}, Options{MaxDt: 0.01})
		traj, err := solver.Solve(State{1}, times)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		return traj
	}

	a, b := run(), run()
	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			t.Fatalf("sample %d differs between identical runs: %v vs %v",
				i, a.States[i][0], b.States[i][0])
		}
	}
}

func TestSolverFailFastOnInstability(t *testing.T) {
	solver := NewSolver(blowUp{}, eulerStep{}, Options{MaxDt: 0.01, ValidateState: true})
	times, _ := UniformTimes(0, 5, 51)

	traj, err := solver.Solve(State{1}, times)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatal("expected a SimulationError wrapper")
	}
	if simErr.Step <= 0 {
		t.Errorf("expected failing sample index, got %d", simErr.Step)
	}

	// The partial trajectory holds only finite samples.
	for i, x := range traj.States {
		if !x.IsValid() {
			t.Errorf("retained sample %d is non-finite", i)
		}
	}
}

func TestSolverPropagatesNonFinite(t *testing.T) {
	solver := NewSolver(blowUp{}, eulerStep{}, Options{MaxDt: 0.01, ValidateState: false})
	times, _ := UniformTimes(0, 5, 51)

	traj, err := solver.Solve(State{1}, times)
	if err != nil {
		t.Fatalf("propagate policy must not error: %v", err)
	}
	if traj.Len() != len(times) {
		t.Fatalf("expected full trajectory, got %d samples", traj.Len())
	}
	if traj.Final().IsValid() {
		t.Error("expected non-finite final state after blow-up")
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string           { return "count" }
func (c *countingMetric) Observe(State, float64) { c.count++ }
func (c *countingMetric) Value() float64         { return float64(c.count) }
func (c *countingMetric) Reset()                 { c.count = 0 }

func TestSolverMetrics(t *testing.T) {
	solver := NewSolver(decay{}, eulerStep{}, DefaultOptions())
	solver.AddMetric(&countingMetric{})

	times, _ := UniformTimes(0, 1, 11)
	traj, err := solver.Solve(State{1}, times)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if traj.Metrics["count"] != 11 {
		t.Errorf("expected metric observed once per sample, got %v", traj.Metrics["count"])
	}
}
