package harness

import (
	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
)

// StepTrace records what one scenario step did.
type StepTrace struct {
	Step    int    `json:"step"`
	Input   string `json:"input"`
	Outcome string `json:"outcome"` // ok, invalid or contradiction

	// Error is the rejection or contradiction message, if any.
	Error string `json:"error,omitempty"`

	// Learned and Accused are what propagation established on this step.
	Learned []engine.Fact  `json:"learned,omitempty"`
	Accused []catalog.Card `json:"accused,omitempty"`
	Seq     int64          `json:"seq,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step had its expected outcome, every assertion
	// held and the stored log replayed to the same state.
	Pass bool `json:"pass"`

	// Trace has one entry per step, in order.
	Trace []StepTrace `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Players, Accusation and Fingerprint describe the final state.
	Players     []engine.PlayerView `json:"players"`
	Accusation  []catalog.Card      `json:"accusation"`
	Fingerprint string              `json:"fingerprint"`

	// Contradiction is the contradiction standing after the last step.
	Contradiction *engine.Contradiction `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
