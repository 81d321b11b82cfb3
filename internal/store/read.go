package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/ir"
)

// GameSummary is a game header plus event counts, for listings.
type GameSummary struct {
	Game
	Turns       int
	Corrections int
	LastSeq     int64
}

// ReadGame retrieves a game header by ID.
// Returns ErrGameNotFound if no game has that ID.
func (s *Store) ReadGame(ctx context.Context, id string) (Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, players, self, hand, deck, created_seq, format_version, engine_version
		FROM games
		WHERE id = ?
	`, id)

	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("read game %s: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("read game %s: %w", id, err)
	}
	return g, nil
}

// ReadEvents returns every event of a game in seq order. A payload whose
// hash no longer matches returns ErrCorruptEvent.
func (s *Store) ReadEvents(ctx context.Context, gameID string) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, payload, hash
		FROM events
		WHERE game_id = ?
		ORDER BY seq ASC, id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", gameID, err)
	}
	defer rows.Close()

	var events []engine.Event
	for rows.Next() {
		var (
			seq                 int64
			kind, payload, hash string
		)
		if err := rows.Scan(&seq, &kind, &payload, &hash); err != nil {
			return nil, fmt.Errorf("read events %s: scan: %w", gameID, err)
		}
		if ir.EventHash([]byte(payload)) != hash {
			return nil, fmt.Errorf("read events %s: seq %d: %w", gameID, seq, ErrCorruptEvent)
		}
		ev, err := unmarshalEvent(seq, kind, payload)
		if err != nil {
			return nil, fmt.Errorf("read events %s: %w", gameID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events %s: %w", gameID, err)
	}
	return events, nil
}

// ListGames returns every game in creation order with its event counts.
func (s *Store) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.players, g.self, g.hand, g.deck, g.created_seq, g.engine_version,
		       COALESCE(SUM(CASE WHEN e.kind = 'turn' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN e.kind = 'correction' THEN 1 ELSE 0 END), 0),
		       COALESCE(MAX(e.seq), 0)
		FROM games g
		LEFT JOIN events e ON e.game_id = g.id
		GROUP BY g.id
		ORDER BY g.created_seq ASC, g.id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var (
			gs                 GameSummary
			self               int
			handJSON, deckJSON string
		)
		if err := rows.Scan(&gs.ID, &gs.Setup.Players, &self, &handJSON, &deckJSON, &gs.CreatedSeq, &gs.EngineVersion,
			&gs.Turns, &gs.Corrections, &gs.LastSeq); err != nil {
			return nil, fmt.Errorf("list games: scan: %w", err)
		}
		if err := decodeGame(&gs.Game, self, handJSON, deckJSON); err != nil {
			return nil, fmt.Errorf("list games: %s: %w", gs.ID, err)
		}
		out = append(out, gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

func scanGame(row *sql.Row) (Game, error) {
	var (
		g                  Game
		self               int
		handJSON, deckJSON string
		format             string
	)
	if err := row.Scan(&g.ID, &g.Setup.Players, &self, &handJSON, &deckJSON, &g.CreatedSeq, &format, &g.EngineVersion); err != nil {
		return Game{}, err
	}
	if format != ir.FormatVersion {
		return Game{}, fmt.Errorf("%w %q (want %q)", ErrFormatVersion, format, ir.FormatVersion)
	}
	if err := decodeGame(&g, self, handJSON, deckJSON); err != nil {
		return Game{}, err
	}
	return g, nil
}

func decodeGame(g *Game, self int, handJSON, deckJSON string) error {
	hand, err := unmarshalHand(handJSON)
	if err != nil {
		return err
	}
	deck, err := unmarshalDeck(deckJSON)
	if err != nil {
		return err
	}
	g.Setup.Self = engine.PlayerID(self)
	g.Setup.Hand = hand
	g.Deck = deck
	return nil
}
