package catalog

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SolutionSize is the number of cards set aside as the hidden solution,
// one per category.
const SolutionSize = 3

// Catalog is an immutable deck description.
type Catalog struct {
	cards    map[Category][]Card // declaration order per category
	category map[Card]Category
	deck     Set
}

// UnknownCardError reports a card name that is not part of the deck.
type UnknownCardError struct {
	Name string
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("unknown card %q", e.Name)
}

// Standard returns the classic deck: 6 suspects, 6 weapons and 9 rooms.
func Standard() *Catalog {
	c, err := New(
		[]string{"white", "plum", "peacock", "scarlet", "mustard", "green"},
		[]string{"rope", "pipe", "wrench", "candlestick", "knife", "revolver"},
		[]string{"billiard", "lounge", "conservatory", "kitchen", "hall",
			"dining", "study", "library", "ballroom"},
	)
	if err != nil {
		panic(fmt.Sprintf("standard deck is invalid: %v", err))
	}
	return c
}

// New builds a catalog from the card names of each category.
//
// Names are normalised with Normalize. Each category must hold at least one
// card and no card may appear twice anywhere in the deck.
func New(suspects, weapons, rooms []string) (*Catalog, error) {
	c := &Catalog{
		cards:    make(map[Category][]Card, len(Categories)),
		category: make(map[Card]Category),
		deck:     make(Set),
	}

	lists := map[Category][]string{Suspect: suspects, Weapon: weapons, Room: rooms}
	for _, cat := range Categories {
		names := lists[cat]
		if len(names) == 0 {
			return nil, fmt.Errorf("category %s has no cards", cat)
		}
		for _, name := range names {
			card, err := normalizeCard(name)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat, err)
			}
			if prev, dup := c.category[card]; dup {
				return nil, fmt.Errorf("card %q listed in both %s and %s", card, prev, cat)
			}
			c.category[card] = cat
			c.cards[cat] = append(c.cards[cat], card)
			c.deck[card] = struct{}{}
		}
	}
	return c, nil
}

// CategoryOf returns the category of card.
func (c *Catalog) CategoryOf(card Card) (Category, bool) {
	cat, ok := c.category[card]
	return cat, ok
}

// CardsIn returns a fresh set of every card in the category.
func (c *Catalog) CardsIn(cat Category) Set {
	return NewSet(c.cards[cat]...)
}

// Names returns the cards of a category in declaration order.
func (c *Catalog) Names(cat Category) []Card {
	return slices.Clone(c.cards[cat])
}

// Deck returns a fresh set of every card.
func (c *Catalog) Deck() Set {
	return c.deck.Clone()
}

// Total returns the number of cards in the deck.
func (c *Catalog) Total() int {
	return len(c.deck)
}

// Contains reports whether card belongs to the deck.
func (c *Catalog) Contains(card Card) bool {
	return c.deck.Contains(card)
}

// Parse normalises a user-supplied card name and checks it against the deck.
func (c *Catalog) Parse(name string) (Card, error) {
	card := Card(Normalize(name))
	if !c.deck.Contains(card) {
		return "", &UnknownCardError{Name: strings.TrimSpace(name)}
	}
	return card, nil
}

// ParseList parses a comma-separated list of card names.
func (c *Catalog) ParseList(list string) ([]Card, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	cards := make([]Card, 0, len(parts))
	for _, part := range parts {
		card, err := c.Parse(part)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// SortCards orders cards by category, then by name.
func (c *Catalog) SortCards(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		ca, cb := c.category[a], c.category[b]
		if ca != cb {
			return int(ca) - int(cb)
		}
		return strings.Compare(string(a), string(b))
	})
}

// Sorted returns the members of s in category order.
func (c *Catalog) Sorted(s Set) []Card {
	cards := s.Sorted()
	c.SortCards(cards)
	return cards
}

// ByCategory partitions s by category.
func (c *Catalog) ByCategory(s Set) map[Category]Set {
	out := make(map[Category]Set, len(Categories))
	for card := range s {
		cat, ok := c.category[card]
		if !ok {
			continue
		}
		if out[cat] == nil {
			out[cat] = make(Set)
		}
		out[cat][card] = struct{}{}
	}
	return out
}

// Definition returns the deck as plain strings, keyed by category name.
// The result round-trips through New.
func (c *Catalog) Definition() map[string][]string {
	out := make(map[string][]string, len(Categories))
	for _, cat := range Categories {
		names := make([]string, len(c.cards[cat]))
		for i, card := range c.cards[cat] {
			names[i] = string(card)
		}
		out[cat.String()] = names
	}
	return out
}

// FromDefinition is the inverse of Definition.
func FromDefinition(def map[string][]string) (*Catalog, error) {
	for key := range def {
		if _, err := ParseCategory(key); err != nil {
			return nil, err
		}
	}
	return New(def[Suspect.String()], def[Weapon.String()], def[Room.String()])
}

// Normalize applies NFC normalisation and Unicode case folding to a card name
// and trims surrounding whitespace.
func Normalize(name string) string {
	// Casers carry state; a fresh one per call keeps Normalize goroutine-safe.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

func normalizeCard(name string) (Card, error) {
	n := Normalize(name)
	if n == "" {
		return "", fmt.Errorf("empty card name")
	}
	for _, r := range n {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return "", fmt.Errorf("card name %q may only contain letters, digits and '-'", name)
		}
	}
	return Card(n), nil
}
