package harness

import (
	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/collection"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Cards is the final collection.
	Cards []card.CollectionCard `json:"cards"`

	// Stats summarizes the final collection.
	Stats collection.Stats `json:"stats"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Cards:  []card.CollectionCard{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
