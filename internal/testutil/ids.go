package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator returns predictable game IDs for tests.
//
// IDs are prefix-1, prefix-2, ... so the same scenario always stores its game
// under the same ID and golden snapshots stay byte-identical.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "game".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "game"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements store.IDGenerator.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// FixedIDGenerator returns the same ID every time.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id. An empty id becomes
// "test-game".
func NewFixedIDGenerator(id string) FixedIDGenerator {
	if id == "" {
		id = "test-game"
	}
	return FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
func (g FixedIDGenerator) Generate() string {
	return g.id
}
