package dynamo

import (
	"fmt"
	"math"
)

// Solver advances a System across an ordered sequence of time samples,
// producing one state per sample. The first trajectory entry is the
// initial state, exactly.
type Solver struct {
	sys     System
	integ   Integrator
	opts    Options
	metrics []Metric
}

func NewSolver(sys System, integ Integrator, opts Options) *Solver {
	return &Solver{sys: sys, integ: integ, opts: opts}
}

func (s *Solver) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// ValidateTimes checks that a time grid is non-empty and strictly
// increasing.
func ValidateTimes(times []float64) error {
	if len(times) == 0 {
		return ErrTimeSamples
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return fmt.Errorf("%w: times[%d]=%g, times[%d]=%g",
				ErrTimeSamples, i-1, times[i-1], i, times[i])
		}
	}
	return nil
}

// Solve integrates from times[0] through the last sample. On a fail-fast
// instability the trajectory computed so far is returned along with a
// SimulationError wrapping ErrUnstable.
func (s *Solver) Solve(x0 State, times []float64) (*Trajectory, error) {
	if err := ValidateTimes(times); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: got %d, system wants %d",
			ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	if s.opts.MaxDt <= 0 {
		return nil, fmt.Errorf("%w: max dt must be positive, got %g",
			ErrInvalidParameter, s.opts.MaxDt)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	traj := &Trajectory{
		States:  make([]State, 0, len(times)),
		Times:   make([]float64, 0, len(times)),
		Metrics: make(map[string]float64),
	}

	x := x0.Clone()
	traj.States = append(traj.States, x.Clone())
	traj.Times = append(traj.Times, times[0])
	s.observe(x, times[0])

	for i := 1; i < len(times); i++ {
		var err error
		x, err = s.advance(x, times[i-1], times[i])
		if err != nil {
			s.finish(traj)
			return traj, &SimulationError{Step: i, Time: times[i], State: x, Wrapped: err}
		}
		if s.opts.ValidateState && !x.IsValid() {
			s.finish(traj)
			return traj, &SimulationError{Step: i, Time: times[i], State: x, Wrapped: ErrUnstable}
		}
		traj.States = append(traj.States, x.Clone())
		traj.Times = append(traj.Times, times[i])
		s.observe(x, times[i])
	}

	s.finish(traj)
	return traj, nil
}

// advance integrates one sample interval, subdividing into fixed
// substeps bounded by MaxDt, or taking adaptive substeps when the
// integrator supports them and a tolerance is set.
func (s *Solver) advance(x State, t0, t1 float64) (State, error) {
	if adaptive, ok := s.integ.(AdaptiveIntegrator); ok && s.opts.Tolerance > 0 {
		return s.advanceAdaptive(adaptive, x, t0, t1)
	}

	span := t1 - t0
	n := int(math.Ceil(span / s.opts.MaxDt))
	if n < 1 {
		n = 1
	}
	h := span / float64(n)
	for k := 0; k < n; k++ {
		x = s.integ.Step(s.sys, x, t0+float64(k)*h, h)
	}
	return x, nil
}

func (s *Solver) advanceAdaptive(integ AdaptiveIntegrator, x State, t0, t1 float64) (State, error) {
	t := t0
	dt := math.Min(s.opts.MaxDt, t1-t0)

	for t < t1 {
		if dt < s.opts.MinDt {
			return x, ErrStepTooSmall
		}
		step := math.Min(dt, t1-t)

		next, suggested, err := integ.StepAdaptive(s.sys, x, t, step, s.opts.Tolerance)
		if err != nil {
			return x, err
		}

		x = next
		t += step

		dt = suggested
		if dt > s.opts.MaxDt {
			dt = s.opts.MaxDt
		}
	}
	return x, nil
}

func (s *Solver) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Solver) finish(traj *Trajectory) {
	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}
}
