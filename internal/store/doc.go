// Package store persists sleuth games in SQLite as an append-only event log.
//
// A game row holds the setup (seats, self, self's hand) and the deck it was
// played with. Every accepted turn and correction is an events row keyed by
// (game_id, seq). Nothing is ever updated in place: the engine's state is
// rebuilt by replaying the log (see Resume), so a session that crashed
// mid-game resumes exactly where it stopped.
//
// # Patterns
//
// Logical ordering:
//   - Events are ordered by seq, assigned by the engine, never by timestamps
//   - Queries use ORDER BY seq ASC, id ASC so results are identical across runs
//
// Idempotent appends:
//   - UNIQUE(game_id, seq) with ON CONFLICT DO NOTHING
//   - Re-appending the same event is a no-op; a different payload at an
//     existing seq is ErrSeqConflict
//
// Canonical payloads:
//   - hand, deck and payload columns hold RFC 8785 canonical JSON (internal/ir)
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
