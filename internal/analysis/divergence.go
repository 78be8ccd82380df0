// Package analysis quantifies how two nearby trajectories of a chaotic
// system separate over time.
package analysis

import (
	"math"
	"sync"

	"github.com/shadyrajab/chaos/internal/dynamo"
	"github.com/shadyrajab/chaos/internal/integrators"
)

// Config selects how a comparison pair is integrated.
type Config struct {
	// Integrator is the name of the step method ("euler", "rk4", "rk45").
	Integrator string

	// Options are passed to both solvers unchanged.
	Options dynamo.Options

	// PerturbIndex is the state component offset by Epsilon in the
	// perturbed run.
	PerturbIndex int

	// Epsilon is the initial offset. Zero produces two identical runs.
	Epsilon float64
}

// Comparison holds a baseline trajectory and one started from a
// perturbed initial condition on the same time grid.
type Comparison struct {
	Baseline  *dynamo.Trajectory
	Perturbed *dynamo.Trajectory

	PerturbIndex int
	Epsilon      float64
}

// Compare integrates the baseline and perturbed runs. The two runs share
// no state and execute concurrently.
func Compare(sys dynamo.System, cfg Config, x0 dynamo.State, times []float64) (*Comparison, error) {
	if err := dynamo.ValidateTimes(times); err != nil {
		return nil, err
	}

	x0p := x0.Clone()
	if cfg.PerturbIndex >= 0 && cfg.PerturbIndex < len(x0p) {
		x0p[cfg.PerturbIndex] += cfg.Epsilon
	}

	starts := []dynamo.State{x0.Clone(), x0p}
	trajs := make([]*dynamo.Trajectory, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range starts {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			integ, err := integrators.New(cfg.Integrator)
			if err != nil {
				errs[idx] = err
				return
			}
			solver := dynamo.NewSolver(sys, integ, cfg.Options)
			trajs[idx], errs[idx] = solver.Solve(starts[idx], times)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Comparison{
		Baseline:     trajs[0],
		Perturbed:    trajs[1],
		PerturbIndex: cfg.PerturbIndex,
		Epsilon:      cfg.Epsilon,
	}, nil
}

// Separation returns the per-sample absolute difference of one state
// component between the two runs.
func (c *Comparison) Separation(index int) []float64 {
	n := c.Baseline.Len()
	if c.Perturbed.Len() < n {
		n = c.Perturbed.Len()
	}
	sep := make([]float64, n)
	for i := 0; i < n; i++ {
		sep[i] = math.Abs(c.Baseline.States[i][index] - c.Perturbed.States[i][index])
	}
	return sep
}

// NormSeparation returns the per-sample Euclidean distance between the
// full state vectors of the two runs.
func (c *Comparison) NormSeparation() []float64 {
	n := c.Baseline.Len()
	if c.Perturbed.Len() < n {
		n = c.Perturbed.Len()
	}
	sep := make([]float64, n)
	for i := 0; i < n; i++ {
		sep[i] = c.Baseline.States[i].Sub(c.Perturbed.States[i]).Norm()
	}
	return sep
}

// MaxSeparation returns the largest value in a separation series.
func MaxSeparation(sep []float64) float64 {
	max := 0.0
	for _, v := range sep {
		if v > max {
			max = v
		}
	}
	return max
}

// FirstExceed returns the earliest time at which the separation series
// crosses the threshold. ok is false if it never does.
func FirstExceed(times, sep []float64, threshold float64) (t float64, ok bool) {
	for i, v := range sep {
		if v > threshold && i < len(times) {
			return times[i], true
		}
	}
	return 0, false
}
