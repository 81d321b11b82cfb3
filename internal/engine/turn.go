package engine

import (
	"github.com/roach88/sleuth/internal/catalog"
)

// turn holds the immutable facts of one observed turn plus the mutable
// resolution state.
//
// INVARIANTS:
//   - candidates ⊆ suggestion
//   - once resolved, candidates and revealed never change
type turn struct {
	number     int
	kind       TurnKind
	suggester  PlayerID
	suggestion catalog.Set
	responder  PlayerID

	// revealed is the card shown, once known. Empty until then.
	revealed catalog.Card

	// candidates is the set of cards that might have been shown.
	candidates catalog.Set

	resolved bool
}

// validateTurn checks a TurnEvent against the setup and self's hand.
// It never mutates engine state.
func (e *Engine) validateTurn(ev TurnEvent) error {
	if err := e.validateSeat("suggester", ev.Suggester); err != nil {
		return err
	}

	switch ev.Kind {
	case TurnPass:
		if len(ev.Suggestion) > 0 {
			return invalid("suggestion", "a pass carries no suggestion")
		}
		if ev.Responder != NoPlayer {
			return invalid("responder", "a pass has no responder")
		}
		if ev.Observed != "" {
			return invalid("observed", "a pass reveals no card")
		}
		return nil

	case TurnSuggestion:
		// validated below

	default:
		return invalid("kind", "unknown turn kind %q", ev.Kind)
	}

	suggestion, err := e.validateSuggestion(ev.Suggestion)
	if err != nil {
		return err
	}

	if ev.Responder != NoPlayer {
		if err := e.validateSeat("responder", ev.Responder); err != nil {
			return err
		}
		if ev.Responder == ev.Suggester {
			return invalid("responder", "player %d cannot respond to their own suggestion", ev.Responder)
		}
	}

	// Self is a non-revealer whenever it sits between suggester and responder.
	// Holding a suggested card there means the report is wrong.
	for _, id := range e.nonRevealers(ev.Suggester, ev.Responder) {
		if id == e.self.id && suggestion.Overlaps(e.self.known) {
			return invalid("responder", "player %d (self) holds %v and would have shown a card",
				id, suggestion.Intersect(e.self.known))
		}
	}

	if ev.Responder == e.self.id && !suggestion.Overlaps(e.self.known) {
		return invalid("responder", "self holds none of %v and cannot have shown a card", suggestion)
	}

	needObserved := ev.Suggester == e.self.id && ev.Responder != NoPlayer
	switch {
	case needObserved && ev.Observed == "":
		return invalid("observed", "self suggested and player %d responded: the shown card is required", ev.Responder)
	case !needObserved && ev.Observed != "":
		return invalid("observed", "only a self suggestion with a responder has an observed card")
	case needObserved && !suggestion.Contains(ev.Observed):
		return invalid("observed", "card %q was not part of the suggestion", ev.Observed)
	case needObserved && e.self.known.Contains(ev.Observed):
		return invalid("observed", "card %q is in self's own hand", ev.Observed)
	}

	return nil
}

// validateSuggestion requires exactly one known card per category.
func (e *Engine) validateSuggestion(cards []catalog.Card) (catalog.Set, error) {
	if len(cards) != len(catalog.Categories) {
		return nil, invalid("suggestion", "expected %d cards, got %d", len(catalog.Categories), len(cards))
	}
	seen := make(map[catalog.Category]catalog.Card, len(catalog.Categories))
	for _, c := range cards {
		cat, ok := e.catalog.CategoryOf(c)
		if !ok {
			return nil, invalid("suggestion", "unknown card %q", c)
		}
		if prev, dup := seen[cat]; dup {
			return nil, invalid("suggestion", "cards %q and %q are both in category %s", prev, c, cat)
		}
		seen[cat] = c
	}
	return catalog.NewSet(cards...), nil
}

func (e *Engine) validateSeat(field string, id PlayerID) error {
	if id < 1 || int(id) > len(e.players) {
		return invalid(field, "player %d out of range 1..%d", id, len(e.players))
	}
	return nil
}

// nonRevealers lists the seats strictly between suggester and responder in
// rotation order. With no responder, everyone but the suggester passed.
func (e *Engine) nonRevealers(suggester, responder PlayerID) []PlayerID {
	n := len(e.players)
	var out []PlayerID
	for i := 1; i < n; i++ {
		id := PlayerID((int(suggester)-1+i)%n + 1)
		if id == responder {
			break
		}
		out = append(out, id)
	}
	return out
}

// seedTurn builds a turn from a validated event and applies the one-time
// deductions that need no propagation.
func (e *Engine) seedTurn(number int, ev TurnEvent) *turn {
	t := &turn{
		number:    number,
		kind:      ev.Kind,
		suggester: ev.Suggester,
		responder: ev.Responder,
	}

	if ev.Kind == TurnPass {
		t.suggestion = make(catalog.Set)
		t.candidates = make(catalog.Set)
		t.resolved = true
		return t
	}

	t.suggestion = catalog.NewSet(ev.Suggestion...)
	t.candidates = t.suggestion.Clone()

	for _, id := range e.nonRevealers(ev.Suggester, ev.Responder) {
		p := e.player(id)
		if p.removeFromPossible(t.suggestion) {
			e.logger.Debug("non-revealer narrowed",
				"turn", number,
				"player", id,
				"suggestion", t.suggestion.String(),
			)
		}
		if !p.self && t.suggestion.Overlaps(p.known) {
			e.logger.Warn("non-revealer is known to hold a suggested card",
				"turn", number,
				"player", id,
				"cards", t.suggestion.Intersect(p.known).String(),
			)
		}
	}

	switch {
	case ev.Responder == NoPlayer:
		t.candidates = make(catalog.Set)
		t.resolved = true

	case ev.Responder == e.self.id:
		t.candidates.Retain(e.self.known)
		if only, ok := t.candidates.Only(); ok {
			t.revealed = only
		}
		t.resolved = true

	case ev.Suggester == e.self.id:
		t.candidates = catalog.NewSet(ev.Observed)
		t.revealed = ev.Observed
	}

	return t
}
