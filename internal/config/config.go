package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/uncertain"
)

const (
	DefaultModel       = "vital"
	DefaultIntegrator  = "euler"
	DefaultInitialTime = 0.0
	DefaultFinalTime   = 30.0
	DefaultStepSize    = 0.5
	DefaultSeed        = 1
	DefaultOutputPath  = "sirModelOutput.txt"
)

type Config struct {
	Model      string           `yaml:"model"`
	Integrator string           `yaml:"integrator"`
	Seed       uint64           `yaml:"seed"`
	Samples    int              `yaml:"samples"`
	Time       TimeConfig       `yaml:"time"`
	Parameters ParametersConfig `yaml:"parameters"`
	Initial    InitialConfig    `yaml:"initial"`
	Output     OutputConfig     `yaml:"output"`
}

type TimeConfig struct {
	Initial float64 `yaml:"initial"`
	Final   float64 `yaml:"final"`
	Step    float64 `yaml:"step"`
}

type ParametersConfig struct {
	InfectionRate uncertain.Spec `yaml:"infection_rate"`
	RecoveryRate  uncertain.Spec `yaml:"recovery_rate"`
	BirthRate     uncertain.Spec `yaml:"birth_rate"`
	DeathRate     uncertain.Spec `yaml:"death_rate"`
}

type InitialConfig struct {
	Susceptible uncertain.Spec `yaml:"susceptible"`
	Infected    uncertain.Spec `yaml:"infected"`
	Recovered   uncertain.Spec `yaml:"recovered"`
}

type OutputConfig struct {
	Path      string   `yaml:"path"`
	Summary   string   `yaml:"summary"`
	SVG       string   `yaml:"svg"`
	Quantiles []string `yaml:"quantiles"`
}

// DefaultConfig is the uncertain SIR run with vital dynamics.
func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Integrator: DefaultIntegrator,
		Seed:       DefaultSeed,
		Samples:    uncertain.DefaultSamples,
		Time: TimeConfig{
			Initial: DefaultInitialTime,
			Final:   DefaultFinalTime,
			Step:    DefaultStepSize,
		},
		Parameters: ParametersConfig{
			InfectionRate: uncertain.Gamma(900, 0.000333),
			RecoveryRate:  uncertain.Gamma(400, 0.0005),
			BirthRate:     uncertain.PointSpec(0.025),
			DeathRate:     uncertain.PointSpec(0.025),
		},
		Initial: InitialConfig{
			Susceptible: uncertain.Gaussian(0.75, 0.01),
			Infected:    uncertain.Gaussian(0.15, 0.01),
			Recovered:   uncertain.Gaussian(0.1, 0.01),
		},
		Output: OutputConfig{
			Path:      DefaultOutputPath,
			Quantiles: []string{"p5", "p50", "p95"},
		},
	}
}

// Load reads a YAML run file on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML run file on top of base, which is modified in place.
// Keys absent from the file keep their base values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sim.ErrConfiguration, err)
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", sim.ErrConfiguration, path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig returns the time grid of the run.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		InitialTime: c.Time.Initial,
		FinalTime:   c.Time.Final,
		StepSize:    c.Time.Step,
	}
}

// Inputs lists the uncertain inputs by name in a fixed order.
func (c *Config) Inputs() []NamedSpec {
	return []NamedSpec{
		{"parameters.infection_rate", c.Parameters.InfectionRate},
		{"parameters.recovery_rate", c.Parameters.RecoveryRate},
		{"parameters.birth_rate", c.Parameters.BirthRate},
		{"parameters.death_rate", c.Parameters.DeathRate},
		{"initial.susceptible", c.Initial.Susceptible},
		{"initial.infected", c.Initial.Infected},
		{"initial.recovered", c.Initial.Recovered},
	}
}

type NamedSpec struct {
	Name string
	Spec uncertain.Spec
}

// IsUncertain reports whether any input is a distribution.
func (c *Config) IsUncertain() bool {
	for _, in := range c.Inputs() {
		if !in.Spec.IsPoint() {
			return true
		}
	}
	return false
}

// QuantileLevels parses Output.Quantiles.
func (c *Config) QuantileLevels() ([]float64, error) {
	return uncertain.ParseQuantileLevels(c.Output.Quantiles)
}

// Validate checks everything that can be checked before sampling. All
// returned errors wrap sim.ErrConfiguration.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", sim.ErrConfiguration)
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.SimConfig().StepCount(); err != nil {
		return err
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples must be >= 0, got %d", sim.ErrConfiguration, c.Samples)
	}
	for _, in := range c.Inputs() {
		if err := in.Spec.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", sim.ErrConfiguration, in.Name, err)
		}
	}
	if _, err := c.QuantileLevels(); err != nil {
		return fmt.Errorf("%w: output.quantiles: %w", sim.ErrConfiguration, err)
	}
	return nil
}
