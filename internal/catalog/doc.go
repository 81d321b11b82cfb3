// Package catalog describes the Clue deck: the three card categories, the
// cards in each one, and plain card sets.
//
// A Catalog is immutable once built. Every other package partitions card sets
// by category through CategoryOf and CardsIn; there is no per-category storage
// inside a Set.
//
// The standard deck is available from Standard. Editions that rename cards
// (an online edition ships "orchid" instead of "white") can describe their deck
// in a CUE file:
//
//	deck: {
//		suspect: ["orchid", "plum", "peacock", "scarlet", "mustard", "green"]
//		weapon:  ["rope", "pipe", "wrench", "candlestick", "knife", "revolver"]
//		room:    ["billiard", "lounge", "conservatory", "kitchen", "hall",
//		          "dining", "study", "library", "ballroom"]
//	}
//
// and load it with LoadFile.
package catalog
