package cache

import (
	"slices"

	"github.com/bnema/startpage/internal/application/port"
)

// DefaultSuggestionCapacity bounds a session's suggestion cache.
const DefaultSuggestionCapacity = 500

type suggestionKey struct {
	engine string
	query  string
}

// SuggestionCache memoizes normalized suggestion lists by exact
// (engine, query) pair, evicting the oldest pair first.
type SuggestionCache struct {
	entries *Bounded[suggestionKey, []string]
}

var _ port.SuggestionCache = (*SuggestionCache)(nil)

// NewSuggestionCache creates a suggestion cache. capacity <= 0 uses
// DefaultSuggestionCapacity.
func NewSuggestionCache(capacity int) *SuggestionCache {
	if capacity <= 0 {
		capacity = DefaultSuggestionCapacity
	}
	return &SuggestionCache{
		entries: NewBounded[suggestionKey, []string](capacity, EvictOldest),
	}
}

// Get returns a copy of the cached list.
func (c *SuggestionCache) Get(engine, query string) ([]string, bool) {
	list, ok := c.entries.Get(suggestionKey{engine: engine, query: query})
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Put stores a copy of suggestions. An empty list is a valid entry.
func (c *SuggestionCache) Put(engine, query string, suggestions []string) {
	stored := slices.Clone(suggestions)
	if stored == nil {
		stored = []string{}
	}
	c.entries.Set(suggestionKey{engine: engine, query: query}, stored)
}

// Len returns the number of cached pairs.
func (c *SuggestionCache) Len() int {
	return c.entries.Len()
}
