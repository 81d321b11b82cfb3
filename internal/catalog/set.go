package catalog

import (
	"slices"
	"strings"
)

// Card identifies a single card. Names are normalised (NFC, case-folded).
type Card string

// Set is an unordered set of cards.
//
// The zero value (nil) is an empty set that is safe to read; use NewSet or
// Clone before adding to it.
type Set map[Card]struct{}

// NewSet builds a set from the given cards.
func NewSet(cards ...Card) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s[c] = struct{}{}
	}
	return s
}

// Len returns the number of cards in the set.
func (s Set) Len() int { return len(s) }

// Contains reports whether c is a member.
func (s Set) Contains(c Card) bool {
	_, ok := s[c]
	return ok
}

// Add inserts cards into the set.
func (s Set) Add(cards ...Card) {
	for _, c := range cards {
		s[c] = struct{}{}
	}
}

// Remove deletes every card of other from s and reports whether s shrank.
func (s Set) Remove(other Set) bool {
	changed := false
	for c := range other {
		if _, ok := s[c]; ok {
			delete(s, c)
			changed = true
		}
	}
	return changed
}

// Retain keeps only the cards also in other and reports whether s shrank.
func (s Set) Retain(other Set) bool {
	changed := false
	for c := range s {
		if !other.Contains(c) {
			delete(s, c)
			changed = true
		}
	}
	return changed
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Union returns s ∪ other as a new set.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// Intersect returns s ∩ other as a new set.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for c := range s {
		if other.Contains(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// Difference returns s \ other as a new set.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for c := range s {
		if !other.Contains(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// Overlaps reports whether s and other share at least one card.
func (s Set) Overlaps(other Set) bool {
	for c := range s {
		if other.Contains(c) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same cards.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Only returns the single member of a one-card set.
func (s Set) Only() (Card, bool) {
	if len(s) != 1 {
		return "", false
	}
	for c := range s {
		return c, true
	}
	return "", false
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []Card {
	out := make([]Card, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// String renders the set as "[a, b, c]" in lexical order.
func (s Set) String() string {
	names := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		names = append(names, string(c))
	}
	return "[" + strings.Join(names, ", ") + "]"
}
