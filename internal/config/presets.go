package config

import (
	"sort"

	"github.com/san-kum/sirsim/internal/uncertain"
)

var Presets = map[string]func() *Config{
	// The uncertain run with vital dynamics; identical to DefaultConfig.
	"reference": DefaultConfig,

	"closed": func() *Config {
		cfg := DefaultConfig()
		cfg.Model = "closed"
		cfg.Samples = 0
		cfg.Parameters = ParametersConfig{
			InfectionRate: uncertain.PointSpec(0.30),
			RecoveryRate:  uncertain.PointSpec(0.20),
		}
		cfg.Initial = InitialConfig{
			Susceptible: uncertain.PointSpec(0.75),
			Infected:    uncertain.PointSpec(0.15),
			Recovered:   uncertain.PointSpec(0.10),
		}
		return cfg
	},

	"uncertain-closed": func() *Config {
		cfg := DefaultConfig()
		cfg.Model = "closed"
		cfg.Parameters.BirthRate = uncertain.Spec{}
		cfg.Parameters.DeathRate = uncertain.Spec{}
		return cfg
	},

	"endemic": func() *Config {
		cfg := DefaultConfig()
		cfg.Samples = 0
		cfg.Time.Final = 400
		cfg.Parameters = ParametersConfig{
			InfectionRate: uncertain.PointSpec(0.30),
			RecoveryRate:  uncertain.PointSpec(0.10),
			BirthRate:     uncertain.PointSpec(0.02),
			DeathRate:     uncertain.PointSpec(0.02),
		}
		cfg.Initial = InitialConfig{
			Susceptible: uncertain.PointSpec(0.99),
			Infected:    uncertain.PointSpec(0.01),
			Recovered:   uncertain.PointSpec(0),
		}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
