package pendulum

import "math"

// NormalModes returns the small-oscillation angular frequencies of the
// linearized double pendulum, slow (in-phase) mode first.
//
// Linearizing about the hanging equilibrium gives M q'' = -K q with
//
//	M = [ (m1+m2) l1^2   m2 l1 l2 ]      K = diag((m1+m2) g l1, m2 g l2)
//	    [ m2 l1 l2       m2 l2^2  ]
//
// and the frequencies are the roots of det(K - w^2 M) = 0.
func (p Params) NormalModes() (slow, fast float64) {
	m1, m2 := p.M1, p.M2
	l1, l2 := p.L1, p.L2
	g := p.G

	a := m1 * m2 * l1 * l1 * l2 * l2
	b := -m2 * (m1 + m2) * g * l1 * l2 * (l1 + l2)
	c := (m1 + m2) * m2 * g * g * l1 * l2

	disc := math.Sqrt(b*b - 4*a*c)
	slow = math.Sqrt((-b - disc) / (2 * a))
	fast = math.Sqrt((-b + disc) / (2 * a))
	return slow, fast
}

// SlowModeShape returns the theta2/theta1 amplitude ratio of the
// in-phase normal mode. For equal masses and lengths this is sqrt(2).
func (p Params) SlowModeShape() float64 {
	slow, _ := p.NormalModes()
	w2 := slow * slow
	// From the first linearized equation:
	// (m1+m2) l1 w^2 theta1 + m2 l2 w^2 theta2 = (m1+m2) g theta1
	return ((p.M1 + p.M2) * (p.G - p.L1*w2)) / (p.M2 * p.L2 * w2)
}
