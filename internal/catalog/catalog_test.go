package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardDeck(t *testing.T) {
	c := Standard()

	assert.Equal(t, 21, c.Total())
	assert.Equal(t, 6, c.CardsIn(Suspect).Len())
	assert.Equal(t, 6, c.CardsIn(Weapon).Len())
	assert.Equal(t, 9, c.CardsIn(Room).Len())

	cat, ok := c.CategoryOf("rope")
	require.True(t, ok)
	assert.Equal(t, Weapon, cat)

	_, ok = c.CategoryOf("banana")
	assert.False(t, ok)
}

func TestCardsInReturnsCopy(t *testing.T) {
	c := Standard()
	rooms := c.CardsIn(Room)
	rooms.Remove(NewSet("hall"))

	assert.True(t, c.CardsIn(Room).Contains("hall"), "mutating the result must not change the catalog")
	assert.True(t, c.Deck().Contains("hall"))
}

func TestParse_Normalizes(t *testing.T) {
	c := Standard()

	card, err := c.Parse("  Rope ")
	require.NoError(t, err)
	assert.Equal(t, Card("rope"), card)

	card, err = c.Parse("PEACOCK")
	require.NoError(t, err)
	assert.Equal(t, Card("peacock"), card)
}

func TestParse_Unknown(t *testing.T) {
	c := Standard()

	_, err := c.Parse("knief")
	require.Error(t, err)

	var unknown *UnknownCardError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "knief", unknown.Name)
}

func TestParseList(t *testing.T) {
	c := Standard()

	cards, err := c.ParseList("hall,plum,knife")
	require.NoError(t, err)
	assert.Equal(t, []Card{"hall", "plum", "knife"}, cards)

	_, err = c.ParseList("hall,plum,knief")
	assert.Error(t, err)

	cards, err = c.ParseList("  ")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSortCards_CategoryThenName(t *testing.T) {
	c := Standard()
	cards := []Card{"hall", "rope", "plum", "ballroom", "green", "knife"}

	c.SortCards(cards)

	assert.Equal(t, []Card{"green", "plum", "knife", "rope", "ballroom", "hall"}, cards)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		suspects []string
		weapons  []string
		rooms    []string
		wantErr  string
	}{
		{
			name:     "empty category",
			suspects: []string{"plum"},
			weapons:  nil,
			rooms:    []string{"hall"},
			wantErr:  "category weapon has no cards",
		},
		{
			name:     "duplicate across categories",
			suspects: []string{"plum"},
			weapons:  []string{"rope"},
			rooms:    []string{"Plum"},
			wantErr:  "listed in both suspect and room",
		},
		{
			name:     "comma in name",
			suspects: []string{"mrs,white"},
			weapons:  []string{"rope"},
			rooms:    []string{"hall"},
			wantErr:  "may only contain",
		},
		{
			name:     "blank name",
			suspects: []string{" "},
			weapons:  []string{"rope"},
			rooms:    []string{"hall"},
			wantErr:  "empty card name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.suspects, tt.weapons, tt.rooms)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefinitionRoundTrip(t *testing.T) {
	c := Standard()

	rebuilt, err := FromDefinition(c.Definition())
	require.NoError(t, err)

	assert.True(t, c.Deck().Equal(rebuilt.Deck()))
	assert.Equal(t, c.Names(Room), rebuilt.Names(Room))
}

func TestFromDefinition_UnknownCategory(t *testing.T) {
	_, err := FromDefinition(map[string][]string{"gadget": {"x"}})
	assert.Error(t, err)
}

func TestByCategory(t *testing.T) {
	c := Standard()
	parts := c.ByCategory(NewSet("plum", "rope", "hall", "kitchen"))

	assert.True(t, parts[Suspect].Equal(NewSet("plum")))
	assert.True(t, parts[Weapon].Equal(NewSet("rope")))
	assert.True(t, parts[Room].Equal(NewSet("hall", "kitchen")))
}

func TestCompile_CustomDeck(t *testing.T) {
	src := `
deck: {
	suspect: ["orchid", "plum", "peacock", "scarlet", "mustard", "green"]
	weapon:  ["rope", "pipe", "wrench", "candlestick", "knife", "revolver"]
	room:    ["billiard", "lounge", "conservatory", "kitchen", "hall", "dining", "study", "library", "ballroom"]
}
`
	c, err := Compile([]byte(src), "deck.cue")
	require.NoError(t, err)

	assert.Equal(t, 21, c.Total())
	cat, ok := c.CategoryOf("orchid")
	require.True(t, ok)
	assert.Equal(t, Suspect, cat)
	assert.False(t, c.Contains("white"))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing deck",
			src:     `cards: []`,
			wantErr: "deck is required",
		},
		{
			name:    "missing category",
			src:     `deck: { suspect: ["plum"], weapon: ["rope"] }`,
			wantErr: "deck.room",
		},
		{
			name:    "unknown category",
			src:     `deck: { suspect: ["plum"], weapon: ["rope"], room: ["hall"], gadget: ["x"] }`,
			wantErr: "unknown category",
		},
		{
			name:    "non-string card",
			src:     `deck: { suspect: [1], weapon: ["rope"], room: ["hall"] }`,
			wantErr: "card names must be strings",
		},
		{
			name:    "not a list",
			src:     `deck: { suspect: "plum", weapon: ["rope"], room: ["hall"] }`,
			wantErr: "must be a list",
		},
		{
			name:    "syntax error",
			src:     `deck: {`,
			wantErr: "cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.src), "deck.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.cue")
	src := `deck: { suspect: ["plum", "green"], weapon: ["rope", "pipe"], room: ["hall", "study"] }`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Total())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}
