package pendulum

import (
	"math"

	"github.com/shadyrajab/chaos/internal/dynamo"
)

// State layout: [theta1, omega1, theta2, omega2]. Angles are measured
// from the downward vertical in radians and are not wrapped; they may
// grow unbounded.
const (
	Theta1 = 0
	Omega1 = 1
	Theta2 = 2
	Omega2 = 3
)

// DoublePendulum is the planar double pendulum in reduced Lagrangian
// coordinates. Derive is a pure function of the state.
//
// The denominators vanish only when cos^2(theta1-theta2) reaches
// (m1+m2)/m2, which is unreachable for real angles whenever m1 > 0.
// Near-singular parameter sets therefore produce large or non-finite
// derivatives rather than an error.
type DoublePendulum struct {
	params Params
}

func New(p Params) (*DoublePendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &DoublePendulum{params: p}, nil
}

// MustNew panics on invalid parameters. Intended for fixed, known-good
// parameter sets.
func MustNew(p Params) *DoublePendulum {
	d, err := New(p)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *DoublePendulum) Params() Params { return d.params }

func (d *DoublePendulum) StateDim() int { return 4 }

func (d *DoublePendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	theta1, omega1, theta2, omega2 := x[Theta1], x[Omega1], x[Theta2], x[Omega2]
	m1, m2 := d.params.M1, d.params.M2
	l1, l2 := d.params.L1, d.params.L2
	g := d.params.G

	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den1 := (m1+m2)*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	alpha1 := (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*l2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(theta1)) / den1

	alpha2 := (-m2*l2*omega2*omega2*sinD*cosD +
		(m1+m2)*(g*math.Sin(theta1)*cosD-
			l1*omega1*omega1*sinD-
			g*math.Sin(theta2))) / den2

	return dynamo.State{omega1, alpha1, omega2, alpha2}
}

// Energy returns total mechanical energy, with potential measured from
// the pivot height.
func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	theta1, omega1, theta2, omega2 := x[Theta1], x[Omega1], x[Theta2], x[Omega2]
	m1, m2 := d.params.M1, d.params.M2
	l1, l2 := d.params.L1, d.params.L2
	g := d.params.G

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(theta1)
	y2 := y1 - l2*math.Cos(theta2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}
