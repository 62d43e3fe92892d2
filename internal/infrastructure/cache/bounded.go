// Package cache provides the bounded in-memory caches used by the search box
// and the proxy server.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/bnema/startpage/internal/application/port"
)

// Policy selects which entry is evicted when a cache is full.
type Policy int

const (
	// EvictOldest drops the entry inserted first. Reads do not reorder.
	EvictOldest Policy = iota
	// EvictLeastRecent drops the entry read or written longest ago.
	EvictLeastRecent
)

// Bounded is a thread-safe cache with a fixed capacity and an optional TTL.
type Bounded[K comparable, V any] struct {
	capacity int
	policy   Policy
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List // Front = newest (or most recent), Back = next to evict
}

var _ port.Cache[string, string] = (*Bounded[string, string])(nil)

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// Option configures a Bounded cache.
type Option func(*boundedOptions)

type boundedOptions struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL expires entries ttl after they were last written.
func WithTTL(ttl time.Duration) Option {
	return func(o *boundedOptions) { o.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *boundedOptions) { o.now = now }
}

// NewBounded creates a cache holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewBounded[K comparable, V any](capacity int, policy Policy, opts ...Option) *Bounded[K, V] {
	o := boundedOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &Bounded[K, V]{
		capacity: capacity,
		policy:   policy,
		ttl:      o.ttl,
		now:      o.now,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns the value for key. Expired entries are dropped and reported
// as missing.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[K, V])
	if c.ttl > 0 && c.now().After(e.expires) {
		c.order.Remove(elem)
		delete(c.items, key)
		return zero, false
	}
	if c.policy == EvictLeastRecent {
		c.order.MoveToFront(elem)
	}
	return e.value, true
}

// Set stores value under key, evicting one entry when the cache is full.
// Overwriting a key keeps its FIFO position under EvictOldest.
func (c *Bounded[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expires = expires
		if c.policy == EvictLeastRecent {
			c.order.MoveToFront(elem)
		}
		return
	}

	if c.order.Len() >= c.capacity {
		if victim := c.order.Back(); victim != nil {
			c.order.Remove(victim)
			delete(c.items, victim.Value.(*entry[K, V]).key)
		}
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expires: expires})
}

// Remove deletes key. Missing keys are ignored.
func (c *Bounded[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes every entry.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
}
