package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shadyrajab/chaos/internal/dynamo"
	"github.com/shadyrajab/chaos/internal/pendulum"
)

const (
	DefaultTheta1  = 0.5
	DefaultTheta2  = 0.5
	DefaultEpsilon = 1e-9
	DefaultStart   = 0.0
	DefaultEnd     = 100.0
	DefaultSamples = 2000
	DefaultMaxDt   = 0.005
)

type Config struct {
	Pendulum   PendulumConfig  `yaml:"pendulum"`
	InitState  InitStateConfig `yaml:"init_state"`
	Epsilon    float64         `yaml:"epsilon"`
	Time       TimeConfig      `yaml:"time"`
	Integrator string          `yaml:"integrator"`
	Solver     SolverConfig    `yaml:"solver"`
}

type PendulumConfig struct {
	L1 float64 `yaml:"l1"`
	L2 float64 `yaml:"l2"`
	M1 float64 `yaml:"m1"`
	M2 float64 `yaml:"m2"`
	G  float64 `yaml:"g"`
}

type InitStateConfig struct {
	Theta1 float64 `yaml:"theta1"`
	Omega1 float64 `yaml:"omega1"`
	Theta2 float64 `yaml:"theta2"`
	Omega2 float64 `yaml:"omega2"`
}

type TimeConfig struct {
	Start   float64 `yaml:"start"`
	End     float64 `yaml:"end"`
	Samples int     `yaml:"samples"`
}

type SolverConfig struct {
	MaxDt         float64 `yaml:"max_dt"`
	Tolerance     float64 `yaml:"tolerance"`
	ValidateState bool    `yaml:"validate_state"`
}

func DefaultConfig() *Config {
	return &Config{
		Pendulum: PendulumConfig{
			L1: pendulum.DefaultLength,
			L2: pendulum.DefaultLength,
			M1: pendulum.DefaultMass,
			M2: pendulum.DefaultMass,
			G:  pendulum.DefaultGravity,
		},
		InitState: InitStateConfig{
			Theta1: DefaultTheta1,
			Theta2: DefaultTheta2,
		},
		Epsilon:    DefaultEpsilon,
		Time:       TimeConfig{Start: DefaultStart, End: DefaultEnd, Samples: DefaultSamples},
		Integrator: "rk4",
		Solver:     SolverConfig{MaxDt: DefaultMaxDt},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() pendulum.Params {
	return pendulum.Params{
		L1: c.Pendulum.L1,
		L2: c.Pendulum.L2,
		M1: c.Pendulum.M1,
		M2: c.Pendulum.M2,
		G:  c.Pendulum.G,
	}
}

func (c *Config) GetInitState() dynamo.State {
	return dynamo.State{
		c.InitState.Theta1,
		c.InitState.Omega1,
		c.InitState.Theta2,
		c.InitState.Omega2,
	}
}

func (c *Config) Times() ([]float64, error) {
	return dynamo.UniformTimes(c.Time.Start, c.Time.End, c.Time.Samples)
}

func (c *Config) Options() dynamo.Options {
	opts := dynamo.DefaultOptions()
	if c.Solver.MaxDt > 0 {
		opts.MaxDt = c.Solver.MaxDt
	}
	opts.Tolerance = c.Solver.Tolerance
	opts.ValidateState = c.Solver.ValidateState
	return opts
}
