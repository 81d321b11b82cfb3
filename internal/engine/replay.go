package engine

import (
	"fmt"

	"github.com/roach88/sleuth/internal/catalog"
)

// State returns the serializable form of the engine: deck, setup and the
// ordered event log.
func (e *Engine) State() GameState {
	return GameState{
		Deck:   e.catalog.Definition(),
		Setup:  e.Setup(),
		Events: e.History(),
	}
}

// Replay rebuilds an engine by applying every event of state in order, each
// followed by Propagate, exactly as a live session would have.
//
// A contradiction raised in the middle of the log is tolerated when a later
// correction clears it; only a contradiction that persists after the last
// event is returned, together with the rebuilt engine. Any other error (a
// malformed event, an unreadable deck) returns a nil engine.
func Replay(state GameState, opts ...Option) (*Engine, error) {
	cat, err := catalog.FromDefinition(state.Deck)
	if err != nil {
		return nil, fmt.Errorf("replay: deck: %w", err)
	}
	return ReplayWith(cat, state, opts...)
}

// ReplayWith is Replay with an already-built catalog.
func ReplayWith(cat *catalog.Catalog, state GameState, opts ...Option) (*Engine, error) {
	e, err := New(cat, state.Setup, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: setup: %w", err)
	}

	if len(state.Events) == 0 {
		// Setup-only deductions, as a live session propagates after New.
		if _, err := e.Propagate(); err != nil {
			if _, ok := IsContradiction(err); !ok {
				return nil, fmt.Errorf("replay: setup: %w", err)
			}
			return e, err
		}
		return e, nil
	}

	var pending error
	for i, ev := range state.Events {
		if err := e.Apply(ev); err != nil {
			return nil, fmt.Errorf("replay: event %d (seq %d): %w", i, ev.Seq, err)
		}
		if _, err := e.Propagate(); err != nil {
			if _, ok := IsContradiction(err); !ok {
				return nil, fmt.Errorf("replay: event %d (seq %d): %w", i, ev.Seq, err)
			}
			pending = err
			continue
		}
		pending = nil
	}

	return e, pending
}

// Apply dispatches one history event to RecordTurn or Correct. It does not
// propagate.
func (e *Engine) Apply(ev Event) error {
	switch ev.Kind {
	case EventTurn:
		if ev.Turn == nil {
			return invalid("event", "turn event missing turn data")
		}
		_, err := e.RecordTurn(*ev.Turn)
		return err

	case EventCorrection:
		if ev.Correction == nil {
			return invalid("event", "correction event missing correction data")
		}
		return e.Correct(*ev.Correction)

	default:
		return invalid("event", "unknown event kind %q", ev.Kind)
	}
}
