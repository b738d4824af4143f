// Package config loads optimizer tuning from an optional YAML file.
// Request fields (populationSize, generations) override whatever the file
// says; the file overrides the built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of solver knobs.
type Config struct {
	Runs        int   `yaml:"runs"`
	MaxParallel int   `yaml:"max_parallel"`
	Seed        int64 `yaml:"seed"`

	PopulationSize int     `yaml:"population_size"`
	Generations    int     `yaml:"generations"`
	StallLimit     int     `yaml:"stall_limit"`
	TournamentSize int     `yaml:"tournament_size"`
	MutationRate   float64 `yaml:"mutation_rate"`
	ReassignRate   float64 `yaml:"reassign_rate"`
	FixedBias      float64 `yaml:"fixed_bias"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Runs:           4,
		MaxParallel:    4,
		PopulationSize: 60,
		Generations:    120,
		StallLimit:     25,
		TournamentSize: 3,
		MutationRate:   0.3,
		ReassignRate:   0.3,
		FixedBias:      0.85,
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
