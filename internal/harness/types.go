package harness

import (
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/score"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Total is the number of generated configurations.
	Total int `json:"total"`

	// Configurations are the written configurations, as read back from the
	// store.
	Configurations []ir.Configuration `json:"configurations"`

	// Excluded holds the ids of stored configurations left out of the
	// written set.
	Excluded []string `json:"excluded,omitempty"`

	// Infos is the stored scoring metadata of every configuration.
	Infos score.Metadata `json:"-"`

	// ErrorCode is set when the run failed with a coded error. The
	// configuration fields are empty then.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:           true,
		Configurations: []ir.Configuration{},
		Errors:         []string{},
		Infos:          score.Metadata{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Configuration returns the written configuration with the given id.
func (r *Result) Configuration(id string) (ir.Configuration, bool) {
	for _, c := range r.Configurations {
		if c.ID == id {
			return c, true
		}
	}
	return ir.Configuration{}, false
}
