package store

import (
	"context"
	"fmt"

	"github.com/roach88/sleuth/internal/engine"
)

// LoadState reads a game and its events into the engine's serializable form.
func (s *Store) LoadState(ctx context.Context, id string) (engine.GameState, error) {
	g, err := s.ReadGame(ctx, id)
	if err != nil {
		return engine.GameState{}, fmt.Errorf("load state: %w", err)
	}
	events, err := s.ReadEvents(ctx, id)
	if err != nil {
		return engine.GameState{}, fmt.Errorf("load state: %w", err)
	}
	for i, ev := range events {
		if want := int64(i + 1); ev.Seq != want {
			return engine.GameState{}, fmt.Errorf("load state %s: event log has a gap: seq %d where %d expected", id, ev.Seq, want)
		}
	}
	return engine.GameState{Deck: g.Deck, Setup: g.Setup, Events: events}, nil
}

// Resume rebuilds the engine of a stored game by replaying its event log.
//
// As with engine.Replay, a contradiction standing at the end of the log is
// returned together with the rebuilt engine so the caller can still inspect
// and correct it.
func (s *Store) Resume(ctx context.Context, id string, opts ...engine.Option) (*engine.Engine, error) {
	state, err := s.LoadState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	e, err := engine.Replay(state, opts...)
	if err != nil {
		if e != nil {
			return e, err
		}
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}
	return e, nil
}

// SaveGame creates the game row for a fresh engine and stores any events it
// already holds.
func (s *Store) SaveGame(ctx context.Context, id string, e *engine.Engine) (Game, error) {
	state := e.State()
	g, err := s.CreateGame(ctx, Game{ID: id, Setup: state.Setup, Deck: state.Deck})
	if err != nil {
		return Game{}, err
	}
	if _, err := s.AppendEvents(ctx, id, state.Events); err != nil {
		return Game{}, fmt.Errorf("save game %s: %w", id, err)
	}
	return g, nil
}

// Sync appends the engine's events that the store does not hold yet.
// It returns the number of events written.
func (s *Store) Sync(ctx context.Context, id string, e *engine.Engine) (int, error) {
	n, err := s.AppendEvents(ctx, id, e.History())
	if err != nil {
		return n, fmt.Errorf("sync %s: %w", id, err)
	}
	return n, nil
}
