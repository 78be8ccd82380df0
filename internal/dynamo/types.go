package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous ODE system dX/dt = f(X, t). The time argument
// is carried for the generic integrator interface; autonomous systems
// ignore it.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems that can report total energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator additionally supports embedded error estimation.
// StepAdaptive returns the new state and a suggested next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Metric observes trajectory samples and reduces them to a scalar.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Trajectory is the complete result of one integration run. It is
// produced once by a Solver and thereafter read-only.
type Trajectory struct {
	States  []State
	Times   []float64
	Metrics map[string]float64
}

// At returns the state at sample i.
func (tr *Trajectory) At(i int) State { return tr.States[i] }

// Len returns the number of samples.
func (tr *Trajectory) Len() int { return len(tr.States) }

// Final returns the last state of the trajectory.
func (tr *Trajectory) Final() State {
	return tr.States[len(tr.States)-1]
}

// Options configures how a Solver advances between time samples.
type Options struct {
	// MaxDt bounds the internal step size. Sample intervals wider than
	// MaxDt are subdivided into equal substeps.
	MaxDt float64

	// Tolerance is the local error tolerance used when the integrator
	// supports adaptive stepping. Zero disables adaptive stepping.
	// The tolerance steers step-size selection rather than bounding
	// local error: a step whose estimate exceeds it is still accepted,
	// and the following step is shrunk.
	Tolerance float64

	// MinDt is the smallest step an adaptive integrator may take before
	// the solve fails with ErrStepTooSmall.
	MinDt float64

	// ValidateState selects the failure policy for non-finite states:
	// true fails fast with ErrUnstable, false lets NaN/Inf propagate
	// through the remaining samples. Values are never clamped.
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{
		MaxDt:         0.01,
		Tolerance:     0,
		MinDt:         1e-10,
		ValidateState: false,
	}
}

// UniformTimes builds a uniform time grid of n samples spanning
// [start, end]. A single sample grid contains only start.
func UniformTimes(start, end float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrTimeSamples
	}
	if n == 1 {
		return []float64{start}, nil
	}
	if end <= start {
		return nil, ErrTimeSamples
	}
	times := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range times {
		times[i] = start + float64(i)*step
	}
	times[n-1] = end
	return times, nil
}
