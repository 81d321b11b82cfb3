package engine

import (
	"strconv"
	"strings"

	"github.com/roach88/sleuth/internal/catalog"
)

// PlayerID is a 1-based seat number in play rotation.
//
// The zero value NoPlayer means "nobody" (e.g. no responder on a turn); it is
// never a valid seat.
type PlayerID int

// NoPlayer marks the absence of a player.
const NoPlayer PlayerID = 0

// ParseResponder reads a responder as typed by a user: a seat number, or
// "none" when nobody showed a card. "0" and the empty string are rejected so
// that "nobody" has exactly one spelling.
func ParseResponder(s string) (PlayerID, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return NoPlayer, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return NoPlayer, invalid("responder", "%q is neither a seat number nor \"none\"", s)
	}
	if n < 1 {
		return NoPlayer, invalid("responder", "seat %d is not valid; use \"none\" when nobody responded", n)
	}
	return PlayerID(n), nil
}

// player is the engine's knowledge about one seat.
//
// INVARIANTS:
//   - known ∩ possible = ∅
//   - |known| ≤ handSize (violations surface as KindHandOverflow)
//   - self: possible = ∅ and known is the dealt hand
type player struct {
	id       PlayerID
	handSize int
	known    catalog.Set
	possible catalog.Set
	self     bool
}

// newPlayer initializes knowledge for a seat. Self starts with its dealt
// hand fully known; everyone else may hold any card self does not hold.
func newPlayer(id PlayerID, handSize int, deck, selfHand catalog.Set, isSelf bool) *player {
	p := &player{id: id, handSize: handSize, self: isSelf}
	if isSelf {
		p.known = selfHand.Clone()
		p.possible = make(catalog.Set)
	} else {
		p.known = make(catalog.Set)
		p.possible = deck.Difference(selfHand)
	}
	return p
}

// HandSizes splits the non-solution cards among players in rotation order.
// Leftover cards go to the lowest-numbered seats.
func HandSizes(totalCards, players int) []int {
	if players <= 0 {
		return nil
	}
	active := totalCards - catalog.SolutionSize
	base, leftover := active/players, active%players
	sizes := make([]int, players)
	for i := range sizes {
		sizes[i] = base
		if i < leftover {
			sizes[i]++
		}
	}
	return sizes
}

// removeFromPossible narrows possibles and reports whether anything changed.
func (p *player) removeFromPossible(cards catalog.Set) bool {
	return p.possible.Remove(cards)
}

// addToHand records cards as definitely held. The caller strips them from
// every other player's possibles.
func (p *player) addToHand(cards catalog.Set) {
	for c := range cards {
		p.known[c] = struct{}{}
		delete(p.possible, c)
	}
}

// promoteToHand moves every remaining possible into the known hand and
// returns the promoted cards.
func (p *player) promoteToHand() catalog.Set {
	promoted := p.possible
	p.possible = make(catalog.Set)
	p.addToHand(promoted)
	return promoted
}

// settled reports whether the player's hand needs no further deduction.
func (p *player) settled() bool {
	return p.possible.Len() == 0
}
