package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
)

// SelfHand is the hand seat 1 holds in StandardGame.
var SelfHand = []catalog.Card{"white", "plum", "pipe", "wrench", "billiard", "lounge"}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StandardSetup is a 3-player game on the standard deck with self in seat 1.
func StandardSetup() engine.Setup {
	return engine.Setup{
		Players: 3,
		Self:    1,
		Hand:    append([]catalog.Card(nil), SelfHand...),
	}
}

// StandardGame returns an engine for StandardSetup with logging discarded.
func StandardGame(t testing.TB, opts ...engine.Option) *engine.Engine {
	t.Helper()
	opts = append([]engine.Option{engine.WithLogger(DiscardLogger())}, opts...)
	e, err := engine.New(catalog.Standard(), StandardSetup(), opts...)
	require.NoError(t, err)
	return e
}

// Cards converts names to cards.
func Cards(names ...string) []catalog.Card {
	out := make([]catalog.Card, len(names))
	for i, n := range names {
		out[i] = catalog.Card(n)
	}
	return out
}

// Play records a turn and propagates, failing the test on any error.
func Play(t testing.TB, e *engine.Engine, ev engine.TurnEvent) {
	t.Helper()
	_, err := e.RecordTurn(ev)
	require.NoError(t, err)
	_, err = e.Propagate()
	require.NoError(t, err)
}
