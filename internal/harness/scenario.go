package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/isodesign/internal/ir"
)

// Scenario is one design run and the outcome it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Design is the path of the CUE design file. LoadScenario resolves it
	// against the scenario's directory.
	Design string `yaml:"design"`

	// MaxCombinations bounds generation. 0 means unbounded.
	MaxCombinations uint64 `yaml:"max_combinations,omitempty"`

	// Exclude lists 1-based configuration indices left out of the written set.
	Exclude []int `yaml:"exclude,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a run.
type Assertion struct {
	Type string `yaml:"type"`

	// ID is the configuration id (configuration, excluded, labeled_inputs,
	// total_price, unpriced).
	ID string `yaml:"id,omitempty"`

	// Count is the expected number (total, written, labeled_inputs).
	Count int `yaml:"count,omitempty"`

	// Rows are the expected rows, in order (configuration).
	Rows []ir.Row `yaml:"rows,omitempty"`

	// Value is the expected decimal (total_price).
	Value string `yaml:"value,omitempty"`

	// Code is the expected error code (error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertTotal         = "total"
	AssertWritten       = "written"
	AssertConfiguration = "configuration"
	AssertExcluded      = "excluded"
	AssertLabeledInputs = "labeled_inputs"
	AssertTotalPrice    = "total_price"
	AssertUnpriced      = "unpriced"
	AssertError         = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so "assertion:" is not silently ignored.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Design != "" && !filepath.IsAbs(scenario.Design) {
		scenario.Design = filepath.Join(filepath.Dir(path), scenario.Design)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Design == "" {
		return fmt.Errorf("design is required")
	}

	if _, err := os.Stat(s.Design); os.IsNotExist(err) {
		return fmt.Errorf("design file not found: %s", s.Design)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, idx := range s.Exclude {
		if idx < 1 {
			return fmt.Errorf("exclude[%d]: index must be positive, got %d", i, idx)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTotal, AssertWritten:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertConfiguration:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for configuration", index)
		}
		if len(a.Rows) == 0 {
			return fmt.Errorf("assertions[%d]: rows list is required for configuration", index)
		}
	case AssertExcluded, AssertUnpriced:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
	case AssertLabeledInputs:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for labeled_inputs", index)
		}
	case AssertTotalPrice:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for total_price", index)
		}
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for total_price", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
