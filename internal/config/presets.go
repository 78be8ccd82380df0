package config

import (
	"math"
	"sort"
)

// Presets are named starting conditions for the divergence demo. Each
// value is a complete Config; unset fields fall back to defaults when
// applied.
var Presets = map[string]*Config{
	// The canonical chaos demonstration: energetic release, tiny
	// perturbation on the second angle.
	"classic": {
		InitState:  InitStateConfig{Theta1: math.Pi / 2, Theta2: math.Pi / 4},
		Epsilon:    1e-9,
		Time:       TimeConfig{Start: 0, End: 100, Samples: 2000},
		Integrator: "rk4",
		Solver:     SolverConfig{MaxDt: 0.005},
	},
	// Near the hanging equilibrium the motion stays quasi-periodic and
	// nearby trajectories separate slowly.
	"gentle": {
		InitState:  InitStateConfig{Theta1: 0.3, Theta2: 0.3},
		Epsilon:    1e-9,
		Time:       TimeConfig{Start: 0, End: 60, Samples: 1200},
		Integrator: "rk4",
		Solver:     SolverConfig{MaxDt: 0.005},
	},
	// High-energy release close to the inverted position.
	"flip": {
		InitState:  InitStateConfig{Theta1: 3.0, Theta2: 3.0},
		Epsilon:    1e-9,
		Time:       TimeConfig{Start: 0, End: 60, Samples: 1800},
		Integrator: "rk45",
		Solver:     SolverConfig{MaxDt: 0.005, Tolerance: 1e-9},
	},
	// Small-angle in-phase normal mode; a regular reference run.
	"slow-mode": {
		InitState:  InitStateConfig{Theta1: 0.02, Theta2: 0.02 * math.Sqrt2},
		Epsilon:    0,
		Time:       TimeConfig{Start: 0, End: 20, Samples: 2000},
		Integrator: "rk4",
		Solver:     SolverConfig{MaxDt: 0.001},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in,
// or nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.InitState = p.InitState
	cfg.Epsilon = p.Epsilon
	cfg.Time = p.Time
	cfg.Integrator = p.Integrator
	cfg.Solver = p.Solver
	if p.Pendulum != (PendulumConfig{}) {
		cfg.Pendulum = p.Pendulum
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
