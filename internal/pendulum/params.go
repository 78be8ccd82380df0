package pendulum

import (
	"fmt"
	"math"

	"github.com/shadyrajab/chaos/internal/dynamo"
)

const (
	DefaultLength  = 1.0
	DefaultMass    = 1.0
	DefaultGravity = 9.81
)

// Params holds the physical constants of the double pendulum. They are
// immutable for the duration of one trajectory computation.
type Params struct {
	L1, L2 float64 // arm lengths (m)
	M1, M2 float64 // point masses (kg)
	G      float64 // gravitational acceleration (m/s^2)
}

func DefaultParams() Params {
	return Params{
		L1: DefaultLength, L2: DefaultLength,
		M1: DefaultMass, M2: DefaultMass,
		G: DefaultGravity,
	}
}

// Validate rejects non-positive or non-finite constants before any
// integration starts.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %g",
				dynamo.ErrInvalidParameter, name, v)
		}
		return nil
	}
	if err := check("l1", p.L1); err != nil {
		return err
	}
	if err := check("l2", p.L2); err != nil {
		return err
	}
	if err := check("m1", p.M1); err != nil {
		return err
	}
	if err := check("m2", p.M2); err != nil {
		return err
	}
	return check("g", p.G)
}
