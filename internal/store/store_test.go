package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/ir"
	"github.com/roach88/sleuth/internal/testutil"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGame stores a standard 3-player game header.
func createTestGame(t *testing.T, s *Store, id string) Game {
	t.Helper()
	g, err := s.CreateGame(context.Background(), Game{
		ID:    id,
		Setup: testutil.StandardSetup(),
		Deck:  catalog.Standard().Definition(),
	})
	if err != nil {
		t.Fatalf("CreateGame(%s) failed: %v", id, err)
	}
	return g
}

func turnAt(seq int64, ev engine.TurnEvent) engine.Event {
	return engine.Event{Seq: seq, Kind: engine.EventTurn, Turn: &ev}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"games", "events"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		if err := s.verifyPragma(tt.name, tt.want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer s.Close()

	createTestGame(t, s, "mem")
	if _, err := s.ReadGame(context.Background(), "mem"); err != nil {
		t.Fatalf("in-memory game lost between statements: %v", err)
	}
}

func TestCreateGame_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created := createTestGame(t, s, "g1")
	if created.CreatedSeq != 1 {
		t.Errorf("CreatedSeq = %d, want 1", created.CreatedSeq)
	}

	got, err := s.ReadGame(ctx, "g1")
	if err != nil {
		t.Fatalf("ReadGame() failed: %v", err)
	}
	if got.Setup.Players != 3 || got.Setup.Self != 1 {
		t.Errorf("setup = %+v", got.Setup)
	}
	if len(got.Setup.Hand) != len(testutil.SelfHand) {
		t.Fatalf("hand = %v, want %v", got.Setup.Hand, testutil.SelfHand)
	}
	for i, c := range testutil.SelfHand {
		if got.Setup.Hand[i] != c {
			t.Errorf("hand[%d] = %q, want %q", i, got.Setup.Hand[i], c)
		}
	}
	if len(got.Deck["room"]) != 9 {
		t.Errorf("deck rooms = %v", got.Deck["room"])
	}
	if got.EngineVersion != ir.EngineVersion {
		t.Errorf("EngineVersion = %q, want %q", got.EngineVersion, ir.EngineVersion)
	}
}

func TestReadGame_RejectsOtherFormat(t *testing.T) {
	s := createTestStore(t)
	createTestGame(t, s, "g1")

	if _, err := s.db.Exec(`UPDATE games SET format_version = '0' WHERE id = 'g1'`); err != nil {
		t.Fatalf("update: %v", err)
	}
	_, err := s.ReadGame(context.Background(), "g1")
	if !errors.Is(err, ErrFormatVersion) {
		t.Fatalf("err = %v, want ErrFormatVersion", err)
	}
}

func TestReadEvents_DetectsTamperedPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")

	ev := turnAt(1, engine.Pass(1))
	if _, err := s.AppendEvent(ctx, "g1", ev); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE events SET payload = '{"kind":"pass","suggester":2}' WHERE game_id = 'g1'`); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := s.ReadEvents(ctx, "g1")
	if !errors.Is(err, ErrCorruptEvent) {
		t.Fatalf("err = %v, want ErrCorruptEvent", err)
	}
}

func TestCreateGame_Duplicate(t *testing.T) {
	s := createTestStore(t)
	createTestGame(t, s, "g1")

	_, err := s.CreateGame(context.Background(), Game{ID: "g1", Setup: testutil.StandardSetup(), Deck: catalog.Standard().Definition()})
	if !errors.Is(err, ErrGameExists) {
		t.Fatalf("err = %v, want ErrGameExists", err)
	}
}

func TestCreateGame_EmptyID(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.CreateGame(context.Background(), Game{Setup: testutil.StandardSetup()}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestReadGame_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadGame(context.Background(), "missing")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestAppendEvent_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")

	ev := turnAt(1, engine.Suggest(2, testutil.Cards("green", "knife", "hall"), 3))

	inserted, err := s.AppendEvent(ctx, "g1", ev)
	if err != nil || !inserted {
		t.Fatalf("first AppendEvent() = %v, %v", inserted, err)
	}

	inserted, err = s.AppendEvent(ctx, "g1", ev)
	if err != nil {
		t.Fatalf("second AppendEvent() failed: %v", err)
	}
	if inserted {
		t.Error("duplicate event was inserted")
	}

	events, err := s.ReadEvents(ctx, "g1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
}

func TestAppendEvent_SeqConflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")

	if _, err := s.AppendEvent(ctx, "g1", turnAt(1, engine.Pass(1))); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}
	_, err := s.AppendEvent(ctx, "g1", turnAt(1, engine.Pass(2)))
	if !errors.Is(err, ErrSeqConflict) {
		t.Fatalf("err = %v, want ErrSeqConflict", err)
	}
}

func TestAppendEvent_Rejects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")

	tests := []struct {
		name   string
		gameID string
		ev     engine.Event
	}{
		{"unknown game", "missing", turnAt(1, engine.Pass(1))},
		{"zero seq", "g1", turnAt(0, engine.Pass(1))},
		{"turn without body", "g1", engine.Event{Seq: 1, Kind: engine.EventTurn}},
		{"unknown kind", "g1", engine.Event{Seq: 1, Kind: "accuse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AppendEvent(ctx, tt.gameID, tt.ev); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadEvents_PreservesOrderAndPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")

	want := []engine.Event{
		turnAt(1, engine.Suggest(1, testutil.Cards("green", "rope", "hall"), 2).WithObserved("rope")),
		{Seq: 2, Kind: engine.EventCorrection, Correction: &engine.Correction{Player: 3, Kind: engine.Lacks, Card: "knife"}},
		turnAt(3, engine.Suggest(2, testutil.Cards("scarlet", "knife", "study"), engine.NoPlayer)),
		turnAt(4, engine.Pass(3)),
	}
	// Insert out of order; reads come back by seq.
	for _, i := range []int{2, 0, 3, 1} {
		if _, err := s.AppendEvent(ctx, "g1", want[i]); err != nil {
			t.Fatalf("AppendEvent(%d) failed: %v", want[i].Seq, err)
		}
	}

	got, err := s.ReadEvents(ctx, "g1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Seq != want[i].Seq || got[i].Kind != want[i].Kind {
			t.Errorf("event %d = seq %d kind %s, want seq %d kind %s", i, got[i].Seq, got[i].Kind, want[i].Seq, want[i].Kind)
		}
	}

	if obs := got[0].Turn.Observed; obs != "rope" {
		t.Errorf("observed = %q, want rope", obs)
	}
	if got[1].Correction == nil || *got[1].Correction != *want[1].Correction {
		t.Errorf("correction = %+v, want %+v", got[1].Correction, want[1].Correction)
	}
	if r := got[2].Turn.Responder; r != engine.NoPlayer {
		t.Errorf("responder = %d, want NoPlayer", r)
	}
	if got[3].Turn.Kind != engine.TurnPass || len(got[3].Turn.Suggestion) != 0 {
		t.Errorf("pass = %+v", got[3].Turn)
	}
}

func TestMarshalEvent_Canonical(t *testing.T) {
	ev := turnAt(1, engine.Suggest(1, testutil.Cards("green", "rope", "hall"), 2).WithObserved("rope"))

	got, err := marshalEvent(ev)
	if err != nil {
		t.Fatalf("marshalEvent() failed: %v", err)
	}
	want := `{"kind":"suggestion","observed":"rope","responder":2,"suggester":1,"suggestion":["green","rope","hall"]}`
	if got != want {
		t.Errorf("payload = %s\nwant      %s", got, want)
	}
}

func TestListGames(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestGame(t, s, "b")
	createTestGame(t, s, "a")
	if _, err := s.AppendEvent(ctx, "a", turnAt(1, engine.Pass(1))); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendEvent(ctx, "a", engine.Event{Seq: 2, Kind: engine.EventCorrection,
		Correction: &engine.Correction{Player: 2, Kind: engine.Has, Card: "green"}}); err != nil {
		t.Fatal(err)
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames() failed: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("len = %d, want 2", len(games))
	}
	if games[0].ID != "b" || games[1].ID != "a" {
		t.Errorf("order = %s, %s; want creation order b, a", games[0].ID, games[1].ID)
	}
	if games[0].Turns != 0 || games[0].LastSeq != 0 {
		t.Errorf("empty game summary = %+v", games[0])
	}
	if games[1].Turns != 1 || games[1].Corrections != 1 || games[1].LastSeq != 2 {
		t.Errorf("summary = %+v", games[1])
	}
}

func TestDeleteGame_CascadesEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestGame(t, s, "g1")
	if _, err := s.AppendEvent(ctx, "g1", turnAt(1, engine.Pass(1))); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteGame(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("events left after delete: %d", count)
	}
	if err := s.DeleteGame(ctx, "g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second delete err = %v, want ErrGameNotFound", err)
	}
}

func TestUUIDv7Generator(t *testing.T) {
	var gen IDGenerator = UUIDv7Generator{}

	id := gen.Generate()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("not a UUID: %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
	if other := gen.Generate(); other == id {
		t.Error("two calls returned the same ID")
	}
}
