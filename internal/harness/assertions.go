package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final engine state
// and returns one message per failure.
func EvaluateAssertions(e *engine.Engine, standing *engine.Contradiction, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(e, standing, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i+1, err))
		}
	}
	return errs
}

func evaluate(e *engine.Engine, standing *engine.Contradiction, a Assertion) error {
	switch a.Type {
	case AssertKnown:
		p, err := e.Player(engine.PlayerID(a.Player))
		if err != nil {
			return err
		}
		if missing := notIn(a.Cards, p.Known); len(missing) > 0 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("player %d holds %v", a.Player, a.Cards),
				Actual:   fmt.Sprintf("known hand %v (missing %v)", p.Known, missing),
			}
		}

	case AssertLacks:
		p, err := e.Player(engine.PlayerID(a.Player))
		if err != nil {
			return err
		}
		var present []string
		for _, c := range a.Cards {
			card := catalog.Card(catalog.Normalize(c))
			if slices.Contains(p.Known, card) || slices.Contains(p.Possible, card) {
				present = append(present, c)
			}
		}
		if len(present) > 0 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("player %d cannot hold %v", a.Player, a.Cards),
				Actual:   fmt.Sprintf("still known or possible: %v", present),
			}
		}

	case AssertPossible:
		p, err := e.Player(engine.PlayerID(a.Player))
		if err != nil {
			return err
		}
		if !sameCards(a.Cards, p.Possible) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("player %d possibles %v", a.Player, a.Cards),
				Actual:   fmt.Sprintf("%v", p.Possible),
			}
		}

	case AssertAccusation:
		if got := e.Accusation(); !sameCards(a.Cards, got) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%v", a.Cards),
				Actual:   fmt.Sprintf("%v", got),
			}
		}

	case AssertReady:
		if got := e.ReadyToAccuse(); got != *a.Value {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("ready=%t", *a.Value),
				Actual:   fmt.Sprintf("ready=%t (accusation %v)", got, e.Accusation()),
			}
		}

	case AssertTurn:
		return assertTurn(e, a)

	case AssertContradiction:
		if standing == nil {
			return &AssertionError{Type: a.Type, Expected: a.Kind, Actual: "no contradiction"}
		}
		if string(standing.Kind) != a.Kind {
			return &AssertionError{Type: a.Type, Expected: a.Kind, Actual: standing.Error()}
		}

	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
	return nil
}

func assertTurn(e *engine.Engine, a Assertion) error {
	tv, err := e.Turn(a.Number)
	if err != nil {
		return err
	}

	var diffs []string
	if a.Resolved != nil && tv.Resolved != *a.Resolved {
		diffs = append(diffs, fmt.Sprintf("resolved=%t", tv.Resolved))
	}
	if a.Revealed != "" && string(tv.Revealed) != a.Revealed {
		diffs = append(diffs, fmt.Sprintf("revealed=%q", tv.Revealed))
	}
	if a.Candidates != nil && !sameCards(a.Candidates, tv.Candidates) {
		diffs = append(diffs, fmt.Sprintf("candidates=%v", tv.Candidates))
	}
	if len(diffs) == 0 {
		return nil
	}

	var want []string
	if a.Resolved != nil {
		want = append(want, fmt.Sprintf("resolved=%t", *a.Resolved))
	}
	if a.Revealed != "" {
		want = append(want, fmt.Sprintf("revealed=%q", a.Revealed))
	}
	if a.Candidates != nil {
		want = append(want, fmt.Sprintf("candidates=%v", a.Candidates))
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("turn %d %s", a.Number, strings.Join(want, " ")),
		Actual:   strings.Join(diffs, " "),
	}
}

// notIn returns the names in want that are absent from have.
func notIn(want []string, have []catalog.Card) []string {
	var missing []string
	for _, w := range want {
		if !slices.Contains(have, catalog.Card(catalog.Normalize(w))) {
			missing = append(missing, w)
		}
	}
	return missing
}

// sameCards compares as sets.
func sameCards(want []string, have []catalog.Card) bool {
	wantSet := make(catalog.Set, len(want))
	for _, w := range want {
		wantSet.Add(catalog.Card(catalog.Normalize(w)))
	}
	return wantSet.Equal(catalog.NewSet(have...))
}
