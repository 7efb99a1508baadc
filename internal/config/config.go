package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"walsets/internal/models"
)

// Sources names the input tables. Values is required; a URL or a local path.
type Sources struct {
	Values    string `yaml:"values"`
	Codes     string `yaml:"codes,omitempty"`
	Languages string `yaml:"languages,omitempty"`
}

// Config is one run's declaration: where the data lives, which parameters to
// keep (in column order) with their code tables, and which label columns are
// aggregated as sets.
type Config struct {
	Sources    Sources            `yaml:"sources"`
	Parameters []models.Parameter `yaml:"parameters"`
	Sets       []string           `yaml:"sets"`
	Output     string             `yaml:"output,omitempty"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the invariants the engine relies on: a values source, at
// least one parameter, distinct parameter ids, a non-empty missing label per
// parameter, and no label owned by two parameters (a shared "NA" or a code
// label reused across parameters would collide once labels become column
// names, making set lookups ambiguous).
func (c *Config) Validate() error {
	if c.Sources.Values == "" {
		return fmt.Errorf("sources.values is required")
	}
	if len(c.Parameters) == 0 {
		return fmt.Errorf("at least one parameter must be declared")
	}

	ids := make(map[string]bool, len(c.Parameters))
	owner := make(map[string]string) // label -> parameter that declared it
	claim := func(label, id string) error {
		if other, ok := owner[label]; ok && other != id {
			return fmt.Errorf("parameters %s and %s share label %q", other, id, label)
		}
		owner[label] = id
		return nil
	}

	for _, p := range c.Parameters {
		if p.ID == "" {
			return fmt.Errorf("parameter with empty id")
		}
		if ids[p.ID] {
			return fmt.Errorf("parameter %s declared twice", p.ID)
		}
		ids[p.ID] = true

		if p.Missing == "" {
			return fmt.Errorf("parameter %s has no missing label", p.ID)
		}
		if err := claim(p.Missing, p.ID); err != nil {
			return err
		}
		for _, label := range p.Codes {
			if err := claim(label, p.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
