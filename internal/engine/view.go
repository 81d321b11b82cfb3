package engine

import (
	"fmt"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/ir"
)

// PlayerView is a read-only snapshot of one player's knowledge.
type PlayerView struct {
	ID       PlayerID       `json:"id"`
	Self     bool           `json:"self,omitempty"`
	HandSize int            `json:"hand_size"`
	Known    []catalog.Card `json:"known"`
	Possible []catalog.Card `json:"possible"`
}

// TurnView is a read-only snapshot of one turn.
type TurnView struct {
	Number     int            `json:"number"`
	Kind       TurnKind       `json:"kind"`
	Suggester  PlayerID       `json:"suggester"`
	Suggestion []catalog.Card `json:"suggestion,omitempty"`
	Responder  PlayerID       `json:"responder,omitempty"`
	Revealed   catalog.Card   `json:"revealed,omitempty"`
	Candidates []catalog.Card `json:"candidates"`
	Resolved   bool           `json:"resolved"`
}

// Players returns snapshots of every player in seat order.
func (e *Engine) Players() []PlayerView {
	out := make([]PlayerView, len(e.players))
	for i, p := range e.players {
		out[i] = e.playerView(p)
	}
	return out
}

// Player returns the snapshot of one seat.
func (e *Engine) Player(id PlayerID) (PlayerView, error) {
	if err := e.validateSeat("player", id); err != nil {
		return PlayerView{}, err
	}
	return e.playerView(e.player(id)), nil
}

// Turns returns snapshots of the turn history in recording order.
func (e *Engine) Turns() []TurnView {
	out := make([]TurnView, len(e.turns))
	for i, t := range e.turns {
		out[i] = e.turnView(t)
	}
	return out
}

// Turn returns the snapshot of a turn by its 1-based number.
func (e *Engine) Turn(number int) (TurnView, error) {
	if number < 1 || number > len(e.turns) {
		return TurnView{}, invalid("turn", "turn %d out of range 1..%d", number, len(e.turns))
	}
	return e.turnView(e.turns[number-1]), nil
}

// History returns a copy of the accepted event log.
func (e *Engine) History() []Event {
	return append([]Event(nil), e.history...)
}

func (e *Engine) playerView(p *player) PlayerView {
	return PlayerView{
		ID:       p.id,
		Self:     p.self,
		HandSize: p.handSize,
		Known:    e.catalog.Sorted(p.known),
		Possible: e.catalog.Sorted(p.possible),
	}
}

func (e *Engine) turnView(t *turn) TurnView {
	return TurnView{
		Number:     t.number,
		Kind:       t.kind,
		Suggester:  t.suggester,
		Suggestion: e.catalog.Sorted(t.suggestion),
		Responder:  t.responder,
		Revealed:   t.revealed,
		Candidates: e.catalog.Sorted(t.candidates),
		Resolved:   t.resolved,
	}
}

// Fingerprint hashes the observable deduction state: every player's known
// and possible cards, every turn's resolution and the accusation. Two engines
// with equal fingerprints have reached the same conclusions.
func (e *Engine) Fingerprint() (string, error) {
	players := make([]any, len(e.players))
	for i, p := range e.players {
		players[i] = map[string]any{
			"id":        int(p.id),
			"hand_size": p.handSize,
			"known":     cardList(e.catalog.Sorted(p.known)),
			"possible":  cardList(e.catalog.Sorted(p.possible)),
		}
	}

	turns := make([]any, len(e.turns))
	for i, t := range e.turns {
		turns[i] = map[string]any{
			"number":     t.number,
			"resolved":   t.resolved,
			"revealed":   string(t.revealed),
			"candidates": cardList(e.catalog.Sorted(t.candidates)),
		}
	}

	state := map[string]any{
		"players":    players,
		"turns":      turns,
		"accusation": cardList(e.Accusation()),
	}

	data, err := ir.MarshalCanonical(state)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return ir.StateHash(data), nil
}

func cardList(cards []catalog.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = string(c)
	}
	return out
}
