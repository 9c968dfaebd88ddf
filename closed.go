package duphash

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// closedHashes remembers hashes whose group has been closed, so a strict
// aggregator can tell when the grouping precondition is violated.
type closedHashes interface {
	Add(hash string)
	Contains(hash string) bool
	Len() int
}

// unboundedClosed remembers every closed hash. Memory grows with the
// number of distinct hashes in the input.
type unboundedClosed map[string]struct{}

func (c unboundedClosed) Add(hash string) { c[hash] = struct{}{} }

func (c unboundedClosed) Contains(hash string) bool {
	_, ok := c[hash]
	return ok
}

func (c unboundedClosed) Len() int { return len(c) }

// windowClosed remembers only the most recently closed hashes.
// A hash that reappears further back than the window goes undetected.
type windowClosed struct {
	cache *lru.Cache[string, struct{}]
}

func newWindowClosed(size int) (*windowClosed, error) {
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &windowClosed{cache: cache}, nil
}

func (c *windowClosed) Add(hash string) { c.cache.Add(hash, struct{}{}) }

// Contains does not refresh recency: only closing a group does.
func (c *windowClosed) Contains(hash string) bool { return c.cache.Contains(hash) }

func (c *windowClosed) Len() int { return c.cache.Len() }
