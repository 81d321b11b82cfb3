package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/ir"
)

// marshalHand converts a hand to canonical JSON TEXT for storage.
func marshalHand(hand []catalog.Card) (string, error) {
	names := make([]string, len(hand))
	for i, c := range hand {
		names[i] = string(c)
	}
	data, err := ir.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal hand: %w", err)
	}
	return string(data), nil
}

// marshalDeck converts a deck definition to canonical JSON TEXT for storage.
func marshalDeck(deck map[string][]string) (string, error) {
	obj := make(map[string]any, len(deck))
	for cat, names := range deck {
		obj[cat] = names
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal deck: %w", err)
	}
	return string(data), nil
}

// marshalEvent converts an event's body to canonical JSON TEXT.
// Empty optional fields are omitted so a payload depends only on what the
// caller reported.
func marshalEvent(ev engine.Event) (string, error) {
	var obj map[string]any

	switch ev.Kind {
	case engine.EventTurn:
		if ev.Turn == nil {
			return "", fmt.Errorf("marshal event %d: turn event without turn", ev.Seq)
		}
		t := ev.Turn
		obj = map[string]any{
			"kind":      string(t.Kind),
			"suggester": int(t.Suggester),
		}
		if len(t.Suggestion) > 0 {
			names := make([]string, len(t.Suggestion))
			for i, c := range t.Suggestion {
				names[i] = string(c)
			}
			obj["suggestion"] = names
		}
		if t.Responder != engine.NoPlayer {
			obj["responder"] = int(t.Responder)
		}
		if t.Observed != "" {
			obj["observed"] = string(t.Observed)
		}

	case engine.EventCorrection:
		if ev.Correction == nil {
			return "", fmt.Errorf("marshal event %d: correction event without correction", ev.Seq)
		}
		c := ev.Correction
		obj = map[string]any{
			"player": int(c.Player),
			"kind":   string(c.Kind),
			"card":   string(c.Card),
		}

	default:
		return "", fmt.Errorf("marshal event %d: unknown kind %q", ev.Seq, ev.Kind)
	}

	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal event %d: %w", ev.Seq, err)
	}
	return string(data), nil
}

// unmarshalHand parses canonical JSON TEXT to a hand.
func unmarshalHand(data string) ([]catalog.Card, error) {
	var hand []catalog.Card
	if err := json.Unmarshal([]byte(data), &hand); err != nil {
		return nil, fmt.Errorf("unmarshal hand: %w", err)
	}
	return hand, nil
}

// unmarshalDeck parses canonical JSON TEXT to a deck definition.
func unmarshalDeck(data string) (map[string][]string, error) {
	var deck map[string][]string
	if err := json.Unmarshal([]byte(data), &deck); err != nil {
		return nil, fmt.Errorf("unmarshal deck: %w", err)
	}
	return deck, nil
}

// unmarshalEvent rebuilds an event from its stored columns.
func unmarshalEvent(seq int64, kind, payload string) (engine.Event, error) {
	ev := engine.Event{Seq: seq, Kind: engine.EventKind(kind)}

	switch ev.Kind {
	case engine.EventTurn:
		var t engine.TurnEvent
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return engine.Event{}, fmt.Errorf("unmarshal event %d: %w", seq, err)
		}
		ev.Turn = &t

	case engine.EventCorrection:
		var c engine.Correction
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return engine.Event{}, fmt.Errorf("unmarshal event %d: %w", seq, err)
		}
		ev.Correction = &c

	default:
		return engine.Event{}, fmt.Errorf("unmarshal event %d: unknown kind %q", seq, kind)
	}

	return ev, nil
}
