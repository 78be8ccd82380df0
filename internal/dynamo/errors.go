package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a physical parameter outside its
	// valid range (non-positive mass, length or gravity).
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrUnstable indicates the integration produced a non-finite state.
	ErrUnstable = errors.New("dynamo: numerical instability (state diverged)")

	// ErrTimeSamples indicates an empty or non-increasing time grid.
	ErrTimeSamples = errors.New("dynamo: time samples must be strictly increasing and non-empty")

	// ErrStepTooSmall indicates the adaptive step size fell below MinDt.
	ErrStepTooSmall = errors.New("dynamo: adaptive step size below minimum")

	// ErrDimensionMismatch indicates an initial state whose length does
	// not match the system's state dimension.
	ErrDimensionMismatch = errors.New("dynamo: state dimension mismatch")
)

// SimulationError wraps an error with the sample index and time at which
// the solve failed.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("sample %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
