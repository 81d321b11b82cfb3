package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sleuth/internal/catalog"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrInvalidInput marks a rejected setup, turn or correction. Engine state
	// is unchanged when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContradiction marks logically inconsistent accumulated facts.
	ErrContradiction = errors.New("contradiction")
)

// ValidationError reports malformed input detected before any state changed.
type ValidationError struct {
	// Field names the offending input field (e.g. "responder", "suggestion").
	Field string

	// Message is a human-readable description.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ContradictionKind categorizes contradictions.
type ContradictionKind string

const (
	// KindEmptyCandidates: no card the responder could hold explains a turn.
	KindEmptyCandidates ContradictionKind = "empty_candidates"

	// KindCategoryExhausted: every card of a category is in a known hand.
	KindCategoryExhausted ContradictionKind = "category_exhausted"

	// KindCategoryOverflow: more than one card of a category is held by nobody.
	KindCategoryOverflow ContradictionKind = "category_overflow"

	// KindCategoryConflict: two different cards were deduced as the solution
	// card of the same category.
	KindCategoryConflict ContradictionKind = "category_conflict"

	// KindHandOverflow: a player is known to hold more cards than were dealt.
	KindHandOverflow ContradictionKind = "hand_overflow"

	// KindHandUnderflow: a player can no longer hold as many cards as were dealt.
	KindHandUnderflow ContradictionKind = "hand_underflow"
)

// Contradiction is returned by Propagate when the accumulated facts cannot
// all be true. It carries the offending turn or category and a snapshot of the
// players involved, taken at the moment of detection.
//
// Mutations applied earlier in the same Propagate call are kept; each was a
// valid deduction from the facts at the time.
type Contradiction struct {
	Kind ContradictionKind

	// Turn is the offending turn number, 0 when not turn-specific.
	Turn int

	// Category is set for category accounting contradictions.
	Category *catalog.Category

	// Cards lists the cards under consideration (candidates, missing or
	// inactive cards, conflicting solution cards).
	Cards []catalog.Card

	// Players holds snapshots of the players involved.
	Players []PlayerView

	Message string
}

func (c *Contradiction) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", c.Kind, c.Message)
	if c.Turn > 0 {
		fmt.Fprintf(&b, " (turn=%d)", c.Turn)
	}
	if c.Category != nil {
		fmt.Fprintf(&b, " (category=%s)", c.Category)
	}
	if len(c.Cards) > 0 {
		fmt.Fprintf(&b, " cards=%v", c.Cards)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrContradiction) match.
func (c *Contradiction) Is(target error) bool {
	return target == ErrContradiction
}

// IsContradiction returns the contradiction wrapped in err, if any.
func IsContradiction(err error) (*Contradiction, bool) {
	var c *Contradiction
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// RuntimeError represents an engine defect detected during execution.
type RuntimeError struct {
	Code    RuntimeErrorCode
	Message string
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodePassLimit indicates propagation did not reach a fixed point within
	// the configured number of passes. Every rule is monotone over finite sets,
	// so this only happens if a rule reports progress without making any.
	ErrCodePassLimit RuntimeErrorCode = "PASS_LIMIT"
)

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPassLimitError creates a RuntimeError for a propagation that did not settle.
func NewPassLimitError(passes, maxPasses int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodePassLimit,
		Message: fmt.Sprintf("propagation exceeded max passes (%d >= %d)", passes, maxPasses),
		Details: map[string]string{
			"passes":     fmt.Sprintf("%d", passes),
			"max_passes": fmt.Sprintf("%d", maxPasses),
		},
	}
}

// IsPassLimitError reports whether err is a pass limit RuntimeError.
func IsPassLimitError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodePassLimit
	}
	return false
}
