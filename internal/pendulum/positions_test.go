package pendulum

import (
	"math"
	"testing"

	"github.com/shadyrajab/chaos/internal/dynamo"
)

func TestPositionsHanging(t *testing.T) {
	p := Params{L1: 1, L2: 2, M1: 1, M2: 1, G: 9.81}
	f := p.Positions(0, 0)

	if math.Abs(f.X1) > 1e-12 || math.Abs(f.Y1+1) > 1e-12 {
		t.Errorf("mass 1 should hang at (0,-1), got (%g, %g)", f.X1, f.Y1)
	}
	if math.Abs(f.X2) > 1e-12 || math.Abs(f.Y2+3) > 1e-12 {
		t.Errorf("mass 2 should hang at (0,-3), got (%g, %g)", f.X2, f.Y2)
	}
}

func TestPositionsHorizontal(t *testing.T) {
	p := DefaultParams()
	f := p.Positions(math.Pi/2, math.Pi/2)

	if math.Abs(f.X1-1) > 1e-12 || math.Abs(f.Y1) > 1e-12 {
		t.Errorf("mass 1 should be at (1,0), got (%g, %g)", f.X1, f.Y1)
	}
	if math.Abs(f.X2-2) > 1e-12 || math.Abs(f.Y2) > 1e-12 {
		t.Errorf("mass 2 should be at (2,0), got (%g, %g)", f.X2, f.Y2)
	}
}

func TestPositionsArmLengthInvariant(t *testing.T) {
	p := Params{L1: 1.3, L2: 0.7, M1: 2, M2: 0.5, G: 9.81}

	for _, angles := range [][2]float64{{0.3, -1.2}, {2.5, 0.1}, {-3.0, 4.0}} {
		f := p.Positions(angles[0], angles[1])

		r1 := math.Hypot(f.X1, f.Y1)
		r2 := math.Hypot(f.X2-f.X1, f.Y2-f.Y1)

		if math.Abs(r1-p.L1) > 1e-12 {
			t.Errorf("arm 1 length broken: %g", r1)
		}
		if math.Abs(r2-p.L2) > 1e-12 {
			t.Errorf("arm 2 length broken: %g", r2)
		}
	}
}

func TestProject(t *testing.T) {
	p := DefaultParams()
	traj := &dynamo.Trajectory{
		States: []dynamo.State{{0, 0, 0, 0}, {math.Pi / 2, 0, math.Pi / 2, 0}},
		Times:  []float64{0, 1},
	}

	frames := p.Project(traj)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if math.Abs(frames[1].X2-2) > 1e-12 {
		t.Errorf("projection of second sample wrong: %+v", frames[1])
	}
}
