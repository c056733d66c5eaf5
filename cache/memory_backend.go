package cache

import (
	"context"
	"sync"
	"time"

	"github.com/BaSui01/tokensave/contextcache"
	"github.com/BaSui01/tokensave/types"
)

// MemoryBackend is the in-process fallback: a mutex-guarded bounded LRU
// with lazy TTL expiry checked on read. It cannot fail, which is what makes
// it the last link of the fallback chain.
type MemoryBackend struct {
	store *contextcache.Cache[*types.CacheEntry]

	mu sync.Mutex // guards HitCount updates on shared entries
}

// NewMemoryBackend creates a memory backend bounded to maxEntries.
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	if maxEntries < 1 {
		maxEntries = 1000
	}
	return &MemoryBackend{
		store: contextcache.New[*types.CacheEntry](maxEntries),
	}
}

// Name returns "memory".
func (b *MemoryBackend) Name() string { return BackendMemory }

// Get returns the entry for key, or ErrCacheMiss. Expired entries are
// deleted on access, not proactively swept.
func (b *MemoryBackend) Get(_ context.Context, key string) (*types.CacheEntry, error) {
	entry, ok := b.store.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	b.mu.Lock()
	entry.HitCount++
	b.mu.Unlock()
	return entry, nil
}

// Set stores the entry under key with an application-enforced expiry.
func (b *MemoryBackend) Set(_ context.Context, key string, entry *types.CacheEntry, ttl time.Duration) error {
	b.store.Put(key, entry, ttl)
	return nil
}

// Delete removes key if present.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.store.Delete(key)
	return nil
}

// Clear drops every entry.
func (b *MemoryBackend) Clear(_ context.Context) error {
	b.store.Clear()
	return nil
}

// Close is a no-op; there is nothing to release.
func (b *MemoryBackend) Close() error { return nil }

// Len returns the current entry count. Used by tests and stats.
func (b *MemoryBackend) Len() int { return b.store.Len() }
