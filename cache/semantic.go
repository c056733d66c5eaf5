package cache

import (
	"context"

	"github.com/BaSui01/tokensave/types"
)

// SemanticCache is the level 2 extension point: lookup by semantic
// similarity rather than exact identity. Lookup returns the matched entry
// and a similarity score in [0,1), or ErrCacheMiss.
//
// No similarity algorithm ships with this library; the interface exists so
// a host can plug an embedding-backed implementation in without touching
// the tiered lookup flow.
type SemanticCache interface {
	Lookup(ctx context.Context, messages []types.Message, tier string) (*types.CacheEntry, float64, error)
	Store(ctx context.Context, key string, messages []types.Message, tier string, entry *types.CacheEntry) error
	Clear(ctx context.Context) error
}

// TemplateCache is the level 3 extension point: lookup by structural
// request pattern. Same contract as SemanticCache.
type TemplateCache interface {
	Lookup(ctx context.Context, messages []types.Message, tier string) (*types.CacheEntry, float64, error)
	Store(ctx context.Context, key string, messages []types.Message, tier string, entry *types.CacheEntry) error
	Clear(ctx context.Context) error
}

// NoopSemanticCache always misses and ignores writes. It keeps the tiered
// write path level-count-agnostic while level 2 has no real implementation.
type NoopSemanticCache struct{}

func (NoopSemanticCache) Lookup(context.Context, []types.Message, string) (*types.CacheEntry, float64, error) {
	return nil, 0, ErrCacheMiss
}

func (NoopSemanticCache) Store(context.Context, string, []types.Message, string, *types.CacheEntry) error {
	return nil
}

func (NoopSemanticCache) Clear(context.Context) error { return nil }

// NoopTemplateCache always misses and ignores writes.
type NoopTemplateCache struct{}

func (NoopTemplateCache) Lookup(context.Context, []types.Message, string) (*types.CacheEntry, float64, error) {
	return nil, 0, ErrCacheMiss
}

func (NoopTemplateCache) Store(context.Context, string, []types.Message, string, *types.CacheEntry) error {
	return nil
}

func (NoopTemplateCache) Clear(context.Context) error { return nil }
