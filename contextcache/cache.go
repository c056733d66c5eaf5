// Package contextcache provides a generic bounded LRU store with per-entry
// optional TTL. It is the single-level building block used wherever the
// tiered cache machinery would be overkill: memoizing computed artifacts,
// holding delta context references, and backing the in-process cache
// backend.
package contextcache

import (
	"sync"
	"time"
)

// Cache is a mutex-guarded bounded LRU map with lazy per-entry expiry.
// A zero TTL on Put means the entry never expires. All operations are O(1).
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*node[V]
	head    *node[V] // most recently used
	tail    *node[V] // least recently used
}

type node[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero means no expiry
	prev      *node[V]
	next      *node[V]
}

// New creates a cache bounded to maxSize entries. A non-positive maxSize is
// treated as a bound of one.
func New[V any](maxSize int) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[V]{
		maxSize: maxSize,
		items:   make(map[string]*node[V]),
	}
}

// Put stores value under key at the most-recently-used position,
// overwriting any existing entry, then evicts from the LRU end until the
// size bound holds. ttl <= 0 stores the entry without expiry.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if n, ok := c.items[key]; ok {
		n.value = value
		n.expiresAt = expiresAt
		c.moveToHead(n)
		return
	}

	for len(c.items) >= c.maxSize {
		c.evictTail()
	}

	n := &node[V]{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = n
	c.addToHead(n)
}

// Get returns the value for key and whether it was present. An expired
// entry is purged and reported as absent; it is never resurrected. A hit
// refreshes the key's recency position.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	n, ok := c.items[key]
	if !ok {
		return zero, false
	}

	if !n.expiresAt.IsZero() && time.Now().After(n.expiresAt) {
		c.removeNode(n)
		delete(c.items, key)
		return zero, false
	}

	c.moveToHead(n)
	return n.value, true
}

// Exists reports whether key holds a live entry. Presence is tracked with
// an explicit flag, so a stored zero value is still distinguishable from
// absence.
func (c *Cache[V]) Exists(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		c.removeNode(n)
		delete(c.items, key)
	}
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*node[V])
	c.head = nil
	c.tail = nil
}

// Len returns the current entry count, including entries that have expired
// but not yet been purged by a read.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[V]) addToHead(n *node[V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[V]) removeNode(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
}

func (c *Cache[V]) moveToHead(n *node[V]) {
	if n == c.head {
		return
	}
	c.removeNode(n)
	c.addToHead(n)
}

func (c *Cache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.key)
	c.removeNode(c.tail)
}
