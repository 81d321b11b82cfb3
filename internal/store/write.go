package store

import (
	"context"
	"fmt"

	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/ir"
)

// Game is a stored game header: everything needed to start an engine before
// the first event is replayed.
type Game struct {
	ID    string
	Setup engine.Setup
	Deck  map[string][]string

	// CreatedSeq orders games by creation. Assigned by CreateGame.
	CreatedSeq int64

	// EngineVersion is the engine that created the game. Stamped by
	// CreateGame.
	EngineVersion string
}

// CreateGame inserts a new game and returns it with CreatedSeq assigned.
// A duplicate ID returns ErrGameExists.
func (s *Store) CreateGame(ctx context.Context, g Game) (Game, error) {
	if g.ID == "" {
		return Game{}, fmt.Errorf("create game: empty id")
	}

	handJSON, err := marshalHand(g.Setup.Hand)
	if err != nil {
		return Game{}, fmt.Errorf("create game %s: %w", g.ID, err)
	}
	deckJSON, err := marshalDeck(g.Deck)
	if err != nil {
		return Game{}, fmt.Errorf("create game %s: %w", g.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, fmt.Errorf("create game %s: begin tx: %w", g.ID, err)
	}
	defer tx.Rollback() // No-op if committed

	g.EngineVersion = ir.EngineVersion
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_seq), 0) + 1 FROM games`).Scan(&g.CreatedSeq); err != nil {
		return Game{}, fmt.Errorf("create game %s: next seq: %w", g.ID, err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO games
		(id, players, self, hand, deck, created_seq, format_version, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		g.ID,
		g.Setup.Players,
		int(g.Setup.Self),
		handJSON,
		deckJSON,
		g.CreatedSeq,
		ir.FormatVersion,
		g.EngineVersion,
	)
	if err != nil {
		return Game{}, fmt.Errorf("create game %s: %w", g.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Game{}, fmt.Errorf("create game %s: rows affected: %w", g.ID, err)
	}
	if rows == 0 {
		return Game{}, fmt.Errorf("create game %s: %w", g.ID, ErrGameExists)
	}

	if err := tx.Commit(); err != nil {
		return Game{}, fmt.Errorf("create game %s: commit: %w", g.ID, err)
	}
	return g, nil
}

// AppendEvent stores one engine event.
//
// Uses ON CONFLICT(game_id, seq) DO NOTHING for idempotency: writing the same
// event twice returns inserted=false. A different payload at an existing seq
// returns ErrSeqConflict. Each payload is stored with its ir.EventHash.
//
// Note: The game must exist (foreign key constraint).
func (s *Store) AppendEvent(ctx context.Context, gameID string, ev engine.Event) (inserted bool, err error) {
	if ev.Seq < 1 {
		return false, fmt.Errorf("append event: invalid seq %d", ev.Seq)
	}
	payload, err := marshalEvent(ev)
	if err != nil {
		return false, fmt.Errorf("append event: %w", err)
	}
	hash := ir.EventHash([]byte(payload))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("append event: begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO events
		(game_id, seq, kind, payload, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id, seq) DO NOTHING
	`,
		gameID,
		ev.Seq,
		string(ev.Kind),
		payload,
		hash,
	)
	if err != nil {
		return false, fmt.Errorf("append event %s/%d: %w", gameID, ev.Seq, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append event %s/%d: rows affected: %w", gameID, ev.Seq, err)
	}

	if rows == 0 {
		var kind, existing string
		err = tx.QueryRowContext(ctx, `
			SELECT kind, hash FROM events
			WHERE game_id = ? AND seq = ?
		`, gameID, ev.Seq).Scan(&kind, &existing)
		if err != nil {
			return false, fmt.Errorf("append event %s/%d: select existing: %w", gameID, ev.Seq, err)
		}
		if kind != string(ev.Kind) || existing != hash {
			return false, fmt.Errorf("append event %s/%d: %w", gameID, ev.Seq, ErrSeqConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("append event %s/%d: commit: %w", gameID, ev.Seq, err)
	}
	return rows > 0, nil
}

// AppendEvents stores events in order, skipping ones already present.
// It returns the number of newly inserted events.
func (s *Store) AppendEvents(ctx context.Context, gameID string, events []engine.Event) (int, error) {
	n := 0
	for _, ev := range events {
		inserted, err := s.AppendEvent(ctx, gameID, ev)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, nil
}

// DeleteGame removes a game and its events.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game %s: rows affected: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("delete game %s: %w", id, ErrGameNotFound)
	}
	return nil
}
