// Package config loads isodesign tool settings from YAML.
//
// Settings are looked up from an explicit path (the --config flag), else
// $ISODESIGN_CONFIG, else isodesign.yaml in the working directory. A missing
// implicit file is not an error: defaults apply. Unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/isodesign/internal/score"
	"github.com/roach88/isodesign/internal/solver"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "ISODESIGN_CONFIG"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "isodesign.yaml"

// Config is the tool configuration.
type Config struct {
	OutputDir       string  `yaml:"output_dir"`
	Database        string  `yaml:"database"`
	MaxCombinations uint64  `yaml:"max_combinations"`
	Solver          Solver  `yaml:"solver"`
	Scoring         Scoring `yaml:"scoring"`
}

// Solver holds the solver invocation.
type Solver struct {
	Mode string   `yaml:"mode"`
	Args []string `yaml:"args"`
}

// Scoring holds the default scoring request.
type Scoring struct {
	Criteria  []string           `yaml:"criteria"`
	Operation string             `yaml:"operation"`
	Threshold *float64           `yaml:"threshold"`
	Weights   map[string]float64 `yaml:"weights"`
	Log       bool               `yaml:"log"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		OutputDir: "isodesign_out",
		Solver:    Solver{Mode: string(solver.Stationary)},
	}
}

// Resolve returns the config path to load and whether it was given
// explicitly (flag or environment). An empty path means none was found.
func Resolve(explicit string) (path string, required bool) {
	if explicit != "" {
		return explicit, true
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, true
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, false
	}
	return "", false
}

// Load resolves and reads the configuration. It returns the path it read,
// empty when defaults were used.
func Load(explicit string) (*Config, string, error) {
	path, required := Resolve(explicit)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFile reads one YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the solver mode, the operation and the criteria.
func (c *Config) Validate() error {
	if _, err := solver.ParseMode(c.Solver.Mode); err != nil {
		return fmt.Errorf("solver.mode: %w", err)
	}
	if _, _, err := c.Scoring.Build(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}

// Build returns the criteria and the operation described by s. Weights are
// keyed by criterion key or canonical name.
func (s Scoring) Build() ([]score.Criterion, score.Operation, error) {
	op, err := score.ParseOperation(s.Operation)
	if err != nil {
		return nil, "", err
	}

	criteria := make([]score.Criterion, 0, len(s.Criteria))
	for _, name := range s.Criteria {
		p := score.Params{Threshold: s.Threshold}
		if w, ok := s.Weights[name]; ok {
			p.Weight = &w
		}
		c, err := score.Parse(name, p)
		if err != nil {
			return nil, "", err
		}
		if w, ok := s.Weights[c.Name()]; ok && p.Weight == nil {
			p.Weight = &w
			if c, err = score.Parse(name, p); err != nil {
				return nil, "", err
			}
		}
		criteria = append(criteria, c)
	}
	return criteria, op, nil
}
