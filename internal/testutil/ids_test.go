package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator_Sequence(t *testing.T) {
	gen := NewSequentialIDGenerator("scenario")

	assert.Equal(t, "scenario-1", gen.Generate())
	assert.Equal(t, "scenario-2", gen.Generate())
	assert.Equal(t, "scenario-3", gen.Generate())
}

func TestSequentialIDGenerator_DefaultPrefix(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "game-1", gen.Generate())
}

func TestSequentialIDGenerator_Concurrent(t *testing.T) {
	gen := NewSequentialIDGenerator("g")
	const goroutines = 50

	ids := make(chan string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Generate()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines)
}

func TestFixedIDGenerator(t *testing.T) {
	assert.Equal(t, "abc", NewFixedIDGenerator("abc").Generate())
	assert.Equal(t, "test-game", NewFixedIDGenerator("").Generate())
}
