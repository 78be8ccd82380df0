package metrics

import (
	"math"

	"github.com/shadyrajab/chaos/internal/dynamo"
)

// MaxDisplacement records the largest absolute value a single state
// component reaches during a run. Useful for spotting angle wind-up in
// long chaotic trajectories.
type MaxDisplacement struct {
	name  string
	index int
	max   float64
}

func NewMaxDisplacement(name string, index int) *MaxDisplacement {
	return &MaxDisplacement{name: name, index: index}
}

func (m *MaxDisplacement) Name() string { return m.name }

func (m *MaxDisplacement) Observe(x dynamo.State, t float64) {
	if m.index >= len(x) {
		return
	}
	m.max = math.Max(m.max, math.Abs(x[m.index]))
}

func (m *MaxDisplacement) Value() float64 { return m.max }

func (m *MaxDisplacement) Reset() { m.max = 0 }
