package engine

import (
	"github.com/roach88/sleuth/internal/catalog"
)

// Setup describes the game from self's point of view.
type Setup struct {
	// Players is the number of seats in rotation.
	Players int `json:"players"`

	// Self is the seat of the engine's owner.
	Self PlayerID `json:"self"`

	// Hand is the owner's dealt hand.
	Hand []catalog.Card `json:"hand"`
}

// TurnKind distinguishes suggestions from passes.
type TurnKind string

const (
	TurnSuggestion TurnKind = "suggestion"
	TurnPass       TurnKind = "pass"
)

// TurnEvent is one observed game turn as reported by the caller.
//
// For a suggestion, Suggestion holds exactly one card per category and
// Responder is the seat that showed a card, or NoPlayer if nobody could.
// Observed is the card self was shown; it is required when self suggested and
// somebody responded, and must be empty otherwise.
type TurnEvent struct {
	Kind       TurnKind       `json:"kind"`
	Suggester  PlayerID       `json:"suggester"`
	Suggestion []catalog.Card `json:"suggestion,omitempty"`
	Responder  PlayerID       `json:"responder,omitempty"`
	Observed   catalog.Card   `json:"observed,omitempty"`
}

// Pass builds a TurnEvent for a seat that made no suggestion.
func Pass(suggester PlayerID) TurnEvent {
	return TurnEvent{Kind: TurnPass, Suggester: suggester}
}

// Suggest builds a suggestion TurnEvent.
func Suggest(suggester PlayerID, cards []catalog.Card, responder PlayerID) TurnEvent {
	return TurnEvent{
		Kind:       TurnSuggestion,
		Suggester:  suggester,
		Suggestion: cards,
		Responder:  responder,
	}
}

// WithObserved returns a copy of the event carrying the card self was shown.
func (ev TurnEvent) WithObserved(card catalog.Card) TurnEvent {
	ev.Observed = card
	return ev
}

// CorrectionKind is the assertion made by a manual correction.
type CorrectionKind string

const (
	// Has asserts the player holds the card.
	Has CorrectionKind = "has"

	// Lacks asserts the player cannot hold the card.
	Lacks CorrectionKind = "lacks"
)

// Correction is a manual, out-of-band assertion about a player's hand.
// Corrections are how a user recovers from a Contradiction.
type Correction struct {
	Player PlayerID       `json:"player"`
	Kind   CorrectionKind `json:"kind"`
	Card   catalog.Card   `json:"card"`
}

// EventKind distinguishes history entries.
type EventKind string

const (
	EventTurn       EventKind = "turn"
	EventCorrection EventKind = "correction"
)

// Event is one accepted input, in the order it was applied.
type Event struct {
	Seq        int64       `json:"seq"`
	Kind       EventKind   `json:"kind"`
	Turn       *TurnEvent  `json:"turn,omitempty"`
	Correction *Correction `json:"correction,omitempty"`
}

// GameState is the serializable form of an engine: the deck, the setup and
// the ordered event log. Replay reconstructs an identical engine from it.
type GameState struct {
	Deck   map[string][]string `json:"deck"`
	Setup  Setup               `json:"setup"`
	Events []Event             `json:"events"`
}
