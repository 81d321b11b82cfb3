package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
)

// locateHall leaves g1 with player 2 located holding hall on turn 1.
func locateHall(t *testing.T) {
	t.Helper()
	mustExecute(t, "correct", "g1", "--player", "2", "--lacks", "green")
	mustExecute(t, "correct", "g1", "--player", "2", "--lacks", "knife")
	mustExecute(t, "turn", "g1", "--suggester", "3", "--suggest", "green,knife,hall", "--responder", "2")
}

func TestTrace_RecordsDeductions(t *testing.T) {
	db := testEnv(t)
	newGame(t, db, "g1")
	locateHall(t)

	r, resp := executeJSON(t, "trace", "g1")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)

	result := decodeData[TraceResult](t, resp)
	assert.Equal(t, "g1", result.ID)
	require.Len(t, result.Steps, 4)

	setup := result.Steps[0]
	assert.Equal(t, int64(0), setup.Seq)
	assert.Equal(t, "setup: 3 players, you are player 1", setup.Event)

	assert.Equal(t, "correction: player 2 lacks green", result.Steps[1].Event)

	last := result.Steps[3]
	assert.Equal(t, "player 3 suggested green, knife, hall, player 2 showed", last.Event)
	assert.Equal(t, []engine.Fact{{Player: 2, Card: "hall", Turn: 1}}, last.Learned)
	assert.Equal(t, []int{1}, last.Resolved)
	assert.Nil(t, last.Contradiction)
	assert.Greater(t, last.Seq, result.Steps[2].Seq)

	assert.False(t, result.Ready)
}

func TestTrace_FilterByPlayer(t *testing.T) {
	db := testEnv(t)
	newGame(t, db, "g1")
	locateHall(t)

	_, resp := executeJSON(t, "trace", "g1", "--player", "3")
	result := decodeData[TraceResult](t, resp)
	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Steps[0].Event, "player 3 suggested")
}

func TestTrace_Contradiction(t *testing.T) {
	db := testEnv(t)
	newGame(t, db, "g1")
	contradict(t)
	execute(t, "turn", "g1", "--suggester", "3", "--suggest", "green,knife,hall", "--responder", "2")

	r, resp := executeJSON(t, "trace", "g1")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)
	result := decodeData[TraceResult](t, resp)

	last := result.Steps[len(result.Steps)-1]
	require.NotNil(t, last.Contradiction)
	assert.Equal(t, "empty_candidates", last.Contradiction.Kind)
	assert.Equal(t, []catalog.Card{"green", "knife", "hall"}, last.Contradiction.Cards)
}

func TestTrace_Text(t *testing.T) {
	db := testEnv(t)
	newGame(t, db, "g1")
	locateHall(t)

	r := mustExecute(t, "trace", "g1")
	assert.Contains(t, r.Stdout, "Trace of game g1")
	assert.Contains(t, r.Stdout, "#0 setup: 3 players, you are player 1")
	assert.Contains(t, r.Stdout, "    player 2 holds hall")
	assert.Contains(t, r.Stdout, "    turn 1 resolved")
	assert.Contains(t, r.Stdout, "Accusation: -")
}

func TestTrace_NotFound(t *testing.T) {
	testEnv(t)

	r, resp := executeJSON(t, "trace", "nope")
	assert.Equal(t, ExitCommandError, r.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}
