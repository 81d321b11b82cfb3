package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sleuth/internal/catalog"
)

const nineteenDeck = "../harness/testdata/decks/nineteen.cue"

func TestDeck_Standard(t *testing.T) {
	testEnv(t)

	r, resp := executeJSON(t, "deck")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)

	view := decodeData[DeckView](t, resp)
	assert.Equal(t, "standard", view.Source)
	assert.Equal(t, 21, view.Total)
	require.Len(t, view.Categories, 3)
	assert.Equal(t, "suspect", view.Categories[0].Name)
	assert.Len(t, view.Categories[0].Cards, 6)
	assert.Equal(t, "room", view.Categories[2].Name)
	assert.Len(t, view.Categories[2].Cards, 9)
	assert.Empty(t, view.HandSizes)
}

func TestDeck_Players(t *testing.T) {
	testEnv(t)

	_, resp := executeJSON(t, "deck", "--players", "4")
	view := decodeData[DeckView](t, resp)
	assert.Equal(t, []int{5, 5, 4, 4}, view.HandSizes)

	r := mustExecute(t, "deck", "--players", "4")
	assert.Contains(t, r.Stdout, "Deck standard: 21 cards")
	assert.Contains(t, r.Stdout, "player 4 is dealt 4 cards")
}

func TestDeck_InvalidPlayers(t *testing.T) {
	testEnv(t)

	for _, n := range []string{"1", "19"} {
		r := execute(t, "deck", "--players", n)
		assert.Equal(t, ExitCommandError, r.Code, n)
		assert.Contains(t, r.Stderr, "cannot deal 18 cards")
	}
}

func TestDeck_File(t *testing.T) {
	testEnv(t)

	_, resp := executeJSON(t, "deck", nineteenDeck)
	view := decodeData[DeckView](t, resp)
	assert.Equal(t, nineteenDeck, view.Source)
	assert.Equal(t, 19, view.Total)
	assert.Len(t, view.Categories[2].Cards, 7)
	assert.NotContains(t, view.Categories[2].Cards, catalog.Card("ballroom"))
}

func TestDeck_FromEnv(t *testing.T) {
	db := testEnv(t)
	t.Setenv("SLEUTH_DECK", nineteenDeck)

	_, resp := executeJSON(t, "deck")
	view := decodeData[DeckView](t, resp)
	assert.Equal(t, 19, view.Total)

	// New games pick up the same deck: 16 dealt cards, 8 each.
	r := execute(t, "--db", db, "new", "--players", "2", "--self", "1",
		"--hand", "white,plum,peacock,rope,pipe,wrench,billiard,lounge", "--id", "small")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)
}

func TestDeck_InvalidFile(t *testing.T) {
	testEnv(t)

	r := execute(t, "deck", filepath.Join(t.TempDir(), "missing.cue"))
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stderr, "failed to load deck")

	bad := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(bad, []byte(`deck: { suspect: ["white"] }`), 0644))
	r = execute(t, "deck", bad)
	assert.Equal(t, ExitCommandError, r.Code)
}
