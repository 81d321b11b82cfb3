package engine

import (
	"fmt"

	"github.com/roach88/sleuth/internal/catalog"
)

// Fact is one newly established card location.
type Fact struct {
	Player PlayerID     `json:"player"`
	Card   catalog.Card `json:"card"`

	// Turn is the turn whose revealed card this is, 0 for hand closing.
	Turn int `json:"turn,omitempty"`
}

// Report summarizes one Propagate call.
type Report struct {
	// Changed is true if any pass established new information.
	Changed bool `json:"changed"`

	// Passes is the number of passes run, including the final quiet one.
	Passes int `json:"passes"`

	// Learned lists cards newly placed in a known hand, in deduction order.
	Learned []Fact `json:"learned,omitempty"`

	// Accused lists newly deduced solution cards.
	Accused []catalog.Card `json:"accused,omitempty"`

	// Resolved lists turns that became resolved.
	Resolved []int `json:"resolved,omitempty"`
}

// Propagate applies every rule until a full pass establishes nothing new.
//
// One pass:
//  1. resolveTurn for every unresolved turn, most recent first
//  2. deduceAccusationCards
//  3. closeHandKnowledge
//
// Order is a convergence heuristic only; the rules are monotone, so any order
// reaches the same fixed point. A Contradiction stops the call immediately;
// deductions made before it are kept.
func (e *Engine) Propagate() (Report, error) {
	var rep Report

	for {
		if rep.Passes >= e.maxPasses {
			return rep, NewPassLimitError(rep.Passes, e.maxPasses)
		}
		rep.Passes++

		changed := false
		for i := len(e.turns) - 1; i >= 0; i-- {
			t := e.turns[i]
			if t.resolved {
				continue
			}
			gained, err := e.resolveTurn(t, &rep)
			if err != nil {
				return rep, e.contradicted(err)
			}
			changed = changed || gained
		}

		gained, err := e.deduceAccusationCards(&rep)
		if err != nil {
			return rep, e.contradicted(err)
		}
		changed = changed || gained

		gained, err = e.closeHandKnowledge(&rep)
		if err != nil {
			return rep, e.contradicted(err)
		}
		changed = changed || gained

		if !changed {
			break
		}
		rep.Changed = true
	}

	e.logger.Info("propagation settled",
		"passes", rep.Passes,
		"changed", rep.Changed,
		"learned", len(rep.Learned),
		"accusation", e.accusation.String(),
		"ready", e.ReadyToAccuse(),
	)
	return rep, nil
}

func (e *Engine) contradicted(err error) error {
	if c, ok := IsContradiction(err); ok {
		e.logger.Error("contradiction",
			"kind", c.Kind,
			"turn", c.Turn,
			"cards", fmt.Sprint(c.Cards),
			"message", c.Message,
		)
	}
	return err
}

// resolveTurn narrows a turn's candidates to what the responder could hold.
// It returns true only when the revealed card became known.
func (e *Engine) resolveTurn(t *turn, rep *Report) (bool, error) {
	responder := e.player(t.responder)

	// The responder's known hand already explains the turn.
	if t.candidates.Overlaps(responder.known) {
		t.resolved = true
		rep.Resolved = append(rep.Resolved, t.number)
		return false, nil
	}

	narrowed := t.candidates.Intersect(responder.possible)
	switch narrowed.Len() {
	case 0:
		return false, &Contradiction{
			Kind:    KindEmptyCandidates,
			Turn:    t.number,
			Cards:   e.catalog.Sorted(t.candidates),
			Players: []PlayerView{e.playerView(e.player(t.suggester)), e.playerView(responder)},
			Message: fmt.Sprintf("player %d showed a card but can hold none of %v", responder.id, t.candidates),
		}

	case 1:
		card, _ := narrowed.Only()
		if responder.known.Len() >= responder.handSize {
			return false, e.handOverflow(responder, card, t.number)
		}
		t.candidates = narrowed
		t.revealed = card
		t.resolved = true
		responder.addToHand(narrowed)
		e.stripFromOthers(responder.id, narrowed)

		rep.Learned = append(rep.Learned, Fact{Player: responder.id, Card: card, Turn: t.number})
		rep.Resolved = append(rep.Resolved, t.number)
		e.logger.Debug("card located",
			"turn", t.number,
			"player", responder.id,
			"card", card,
		)
		return true, nil

	default:
		t.candidates = narrowed
		return false, nil
	}
}

// deduceAccusationCards applies the per-category accounting rules:
//
//	Rule A: exactly one card of the category is in nobody's known hand.
//	Rule B: exactly one card of the category could be held by nobody.
//
// Either rule names the solution card. Newly accused cards are removed from
// every possible set and from every unresolved turn's candidates.
func (e *Engine) deduceAccusationCards(rep *Report) (bool, error) {
	held := make(catalog.Set)
	reachable := make(catalog.Set)
	for _, p := range e.players {
		held = held.Union(p.known)
		reachable = reachable.Union(p.known).Union(p.possible)
	}

	newly := make(catalog.Set)
	for _, cat := range catalog.Categories {
		cards := e.catalog.CardsIn(cat)

		var fromA, fromB catalog.Card
		missing := cards.Difference(held)
		switch missing.Len() {
		case 0:
			return false, e.categoryContradiction(KindCategoryExhausted, cat, cards,
				"every card of the category is in a known hand")
		case 1:
			fromA, _ = missing.Only()
		}

		inactive := cards.Difference(reachable)
		switch {
		case inactive.Len() > 1:
			return false, e.categoryContradiction(KindCategoryOverflow, cat, inactive,
				"more than one card of the category can be held by nobody")
		case inactive.Len() == 1:
			fromB, _ = inactive.Only()
		}

		if fromA != "" && fromB != "" && fromA != fromB {
			return false, e.categoryContradiction(KindCategoryConflict, cat, catalog.NewSet(fromA, fromB),
				"accounting rules name different solution cards")
		}
		card := fromA
		if card == "" {
			card = fromB
		}
		if card == "" {
			continue
		}

		accused := e.accusation.Intersect(cards)
		if accused.Len() > 0 {
			if !accused.Contains(card) {
				return false, e.categoryContradiction(KindCategoryConflict, cat, accused.Union(catalog.NewSet(card)),
					"a different solution card was already deduced")
			}
			continue
		}

		e.accusation.Add(card)
		newly.Add(card)
		rep.Accused = append(rep.Accused, card)
		e.logger.Debug("accusation card deduced",
			"category", cat,
			"card", card,
			"by_hands", fromA != "",
			"by_possibles", fromB != "",
		)
	}

	if newly.Len() == 0 {
		return false, nil
	}

	// A solution card is held by nobody and was never shown.
	e.stripFromOthers(NoPlayer, newly)
	for _, t := range e.turns {
		if !t.resolved {
			t.candidates.Remove(newly)
		}
	}
	return true, nil
}

// closeHandKnowledge finishes hands whose size pins them down: a full known
// hand drops its possibles, and possibles that exactly fill the remaining
// slots become known.
func (e *Engine) closeHandKnowledge(rep *Report) (bool, error) {
	gained := false
	for _, p := range e.players {
		if p.self {
			continue
		}

		switch open := p.handSize - p.known.Len(); {
		case open < 0:
			return false, e.handOverflow(p, "", 0)

		case open > p.possible.Len():
			return false, &Contradiction{
				Kind:    KindHandUnderflow,
				Cards:   e.catalog.Sorted(p.known.Union(p.possible)),
				Players: []PlayerView{e.playerView(p)},
				Message: fmt.Sprintf("player %d holds %d cards but only %d remain possible",
					p.id, p.handSize, p.known.Len()+p.possible.Len()),
			}

		case p.settled():
			// nothing left to decide

		case open == 0:
			p.possible = make(catalog.Set)
			gained = true
			e.logger.Debug("hand closed", "player", p.id, "hand", p.known.String())

		case open == p.possible.Len():
			promoted := p.promoteToHand()
			e.stripFromOthers(p.id, promoted)
			for _, card := range e.catalog.Sorted(promoted) {
				rep.Learned = append(rep.Learned, Fact{Player: p.id, Card: card})
			}
			gained = true
			e.logger.Debug("hand completed from possibles", "player", p.id, "promoted", promoted.String())
		}
	}
	return gained, nil
}

func (e *Engine) handOverflow(p *player, card catalog.Card, turn int) *Contradiction {
	cards := e.catalog.Sorted(p.known)
	if card != "" {
		cards = append(cards, card)
	}
	return &Contradiction{
		Kind:    KindHandOverflow,
		Turn:    turn,
		Cards:   cards,
		Players: []PlayerView{e.playerView(p)},
		Message: fmt.Sprintf("player %d was dealt only %d cards", p.id, p.handSize),
	}
}

func (e *Engine) categoryContradiction(kind ContradictionKind, cat catalog.Category, cards catalog.Set, msg string) *Contradiction {
	c := cat
	return &Contradiction{
		Kind:     kind,
		Category: &c,
		Cards:    e.catalog.Sorted(cards),
		Players:  e.Players(),
		Message:  msg,
	}
}
