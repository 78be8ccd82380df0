package pendulum

import (
	"math"

	"github.com/shadyrajab/chaos/internal/dynamo"
)

// Frame holds the Cartesian positions of both masses at one time sample,
// relative to a fixed pivot at the origin. Theta is zero pointing
// straight down, positive counterclockwise.
type Frame struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Positions projects a pair of angles onto the plane.
func (p Params) Positions(theta1, theta2 float64) Frame {
	x1 := p.L1 * math.Sin(theta1)
	y1 := -p.L1 * math.Cos(theta1)
	return Frame{
		X1: x1,
		Y1: y1,
		X2: x1 + p.L2*math.Sin(theta2),
		Y2: y1 - p.L2*math.Cos(theta2),
	}
}

// Project maps every trajectory sample to mass positions. The projection
// is stateless per sample; no frame depends on prior samples.
func (p Params) Project(traj *dynamo.Trajectory) []Frame {
	frames := make([]Frame, traj.Len())
	for i, x := range traj.States {
		frames[i] = p.Positions(x[Theta1], x[Theta2])
	}
	return frames
}

// Reach is the maximum distance of the second mass from the pivot.
func (p Params) Reach() float64 { return p.L1 + p.L2 }
