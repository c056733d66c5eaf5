package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BaSui01/tokensave/internal/metrics"
	"github.com/BaSui01/tokensave/types"
)

// TieredCache orchestrates lookup across three decreasing-confidence
// levels: exact match against the backend chain, then the semantic and
// template extension points. Every backend failure degrades to a miss or a
// no-op; the worst case with all backends down is functionally a cache that
// never hits.
type TieredCache struct {
	cfg      Config
	backend  Backend
	semantic SemanticCache
	template TemplateCache
	strategy KeyStrategy
	logger   *zap.Logger
	metrics  *metrics.Collector
	tracer   trace.Tracer
	group    singleflight.Group

	mu    sync.Mutex
	stats statsCounters
}

type statsCounters struct {
	level1Hits  int64
	level2Hits  int64
	level3Hits  int64
	misses      int64
	tokensSaved int64
	costSaved   float64
}

// Option customizes a TieredCache.
type Option func(*TieredCache)

// WithSemantic installs a level 2 implementation.
func WithSemantic(s SemanticCache) Option {
	return func(t *TieredCache) { t.semantic = s }
}

// WithTemplate installs a level 3 implementation.
func WithTemplate(tc TemplateCache) Option {
	return func(t *TieredCache) { t.template = tc }
}

// WithKeyStrategy overrides the default hash key strategy.
func WithKeyStrategy(s KeyStrategy) Option {
	return func(t *TieredCache) { t.strategy = s }
}

// WithMetrics installs a prometheus collector. Nil is a no-op collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(t *TieredCache) { t.metrics = c }
}

// NewTieredCache creates a tiered cache over the given level 1 backend.
// The host application owns the lifecycle: construct once, inject into
// consumers, Close on shutdown.
func NewTieredCache(cfg Config, backend Backend, logger *zap.Logger, opts ...Option) *TieredCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &TieredCache{
		cfg:      cfg,
		backend:  backend,
		semantic: NoopSemanticCache{},
		template: NoopTemplateCache{},
		strategy: NewHashKeyStrategy(),
		logger:   logger.With(zap.String("component", "tiered_cache")),
		tracer:   otel.Tracer("tokensave/cache"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get looks the request up level by level and returns the first hit.
// maxTokens is the caller's response budget; it travels with the lookup for
// symmetric signatures with the invocation layer but does not affect which
// entry matches.
func (t *TieredCache) Get(ctx context.Context, messages []types.Message, tier string, maxTokens int) types.CacheResult {
	ctx, span := t.tracer.Start(ctx, "tokensave.cache.Get")
	defer span.End()

	key := t.strategy.Key(messages, tier)

	if t.cfg.EnableExact {
		if entry, ok := t.getExact(ctx, key); ok {
			t.recordHit(types.LevelExact, entry)
			return types.CacheResult{
				Hit:         true,
				Level:       types.LevelExact,
				Content:     entry.Content,
				TokensSaved: entry.Tokens,
				CostSaved:   entry.Cost,
				Similarity:  1.0,
			}
		}
	}

	if t.cfg.EnableSemantic {
		if entry, sim, err := t.semantic.Lookup(ctx, messages, tier); err == nil && entry != nil {
			t.recordHit(types.LevelSemantic, entry)
			return types.CacheResult{
				Hit:         true,
				Level:       types.LevelSemantic,
				Content:     entry.Content,
				TokensSaved: entry.Tokens,
				CostSaved:   entry.Cost,
				Similarity:  sim,
			}
		}
	}

	if t.cfg.EnableTemplate {
		if entry, sim, err := t.template.Lookup(ctx, messages, tier); err == nil && entry != nil {
			t.recordHit(types.LevelTemplate, entry)
			return types.CacheResult{
				Hit:         true,
				Level:       types.LevelTemplate,
				Content:     entry.Content,
				TokensSaved: entry.Tokens,
				CostSaved:   entry.Cost,
				Similarity:  sim,
			}
		}
	}

	t.mu.Lock()
	t.stats.misses++
	t.mu.Unlock()
	t.metrics.RecordCacheMiss()

	return types.Miss()
}

// getExact consults the level 1 backend and validates the entry's age
// against the configured TTL. Stale entries are deleted and treated as a
// miss; backend failures are logged and treated as a miss.
func (t *TieredCache) getExact(ctx context.Context, key string) (*types.CacheEntry, bool) {
	entry, err := t.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			t.logger.Warn("level 1 get degraded to miss", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	if ttl := t.cfg.ExactTTL(); ttl > 0 && entry.Age(time.Now()) > ttl {
		if err := t.backend.Delete(ctx, key); err != nil {
			t.logger.Warn("stale entry delete failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	t.logger.Debug("level 1 cache hit", zap.String("key", key))
	return entry, true
}

// Set writes the response to level 1 with the configured TTL and forwards
// it to the enabled level 2/3 write paths. Backend failures are logged and
// swallowed: a failed cache write must never abort the request that
// produced the response.
func (t *TieredCache) Set(ctx context.Context, messages []types.Message, tier, content string, tokensUsed int, cost float64) {
	ctx, span := t.tracer.Start(ctx, "tokensave.cache.Set")
	defer span.End()

	key := t.strategy.Key(messages, tier)
	entry := &types.CacheEntry{
		Content:   content,
		Tokens:    tokensUsed,
		Cost:      cost,
		CreatedAt: time.Now().Unix(),
		Tier:      tier,
	}

	if err := t.backend.Set(ctx, key, entry, t.cfg.ExactTTL()); err != nil {
		t.logger.Warn("level 1 set failed", zap.String("key", key), zap.Error(err))
	}

	if t.cfg.EnableSemantic {
		if err := t.semantic.Store(ctx, key, messages, tier, entry); err != nil {
			t.logger.Warn("level 2 store failed", zap.Error(err))
		}
	}
	if t.cfg.EnableTemplate {
		if err := t.template.Store(ctx, key, messages, tier, entry); err != nil {
			t.logger.Warn("level 3 store failed", zap.Error(err))
		}
	}
}

// ComputeFunc produces a response when the cache misses.
type ComputeFunc func(ctx context.Context) (content string, tokensUsed int, cost float64, err error)

// GetOrCompute returns the cached result for the request or, on miss,
// invokes fn exactly once per key across concurrent callers and populates
// the cache with its result. The returned CacheResult reports a miss when
// fn was invoked, matching what Get would have returned.
func (t *TieredCache) GetOrCompute(ctx context.Context, messages []types.Message, tier string, maxTokens int, fn ComputeFunc) (types.CacheResult, error) {
	if res := t.Get(ctx, messages, tier, maxTokens); res.Hit {
		return res, nil
	}

	key := t.strategy.Key(messages, tier)
	content, err, _ := t.group.Do(key, func() (any, error) {
		content, tokensUsed, cost, err := fn(ctx)
		if err != nil {
			return "", err
		}
		t.Set(ctx, messages, tier, content, tokensUsed, cost)
		return content, nil
	})
	if err != nil {
		return types.Miss(), err
	}

	res := types.Miss()
	res.Content = content.(string)
	return res, nil
}

// GetStats returns a snapshot of the counters plus the derived totals.
func (t *TieredCache) GetStats() types.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := types.Stats{
		Level1Hits:       t.stats.level1Hits,
		Level2Hits:       t.stats.level2Hits,
		Level3Hits:       t.stats.level3Hits,
		Misses:           t.stats.misses,
		TotalTokensSaved: t.stats.tokensSaved,
		TotalCostSaved:   t.stats.costSaved,
	}
	s.TotalRequests = s.Level1Hits + s.Level2Hits + s.Level3Hits + s.Misses
	if s.TotalRequests > 0 {
		s.HitRate = float64(s.Level1Hits+s.Level2Hits+s.Level3Hits) / float64(s.TotalRequests)
	}
	return s
}

// Clear clears every enabled level and resets the counters. An error on
// one level does not prevent clearing the others; the joined error reports
// whatever failed.
func (t *TieredCache) Clear(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "tokensave.cache.Clear")
	defer span.End()

	errs := []error{t.backend.Clear(ctx)}
	if t.cfg.EnableSemantic {
		errs = append(errs, t.semantic.Clear(ctx))
	}
	if t.cfg.EnableTemplate {
		errs = append(errs, t.template.Clear(ctx))
	}

	t.mu.Lock()
	t.stats = statsCounters{}
	t.mu.Unlock()

	return errors.Join(errs...)
}

// Close releases the level 1 backend's resources.
func (t *TieredCache) Close() error {
	return t.backend.Close()
}

func (t *TieredCache) recordHit(level types.CacheLevel, entry *types.CacheEntry) {
	t.mu.Lock()
	switch level {
	case types.LevelExact:
		t.stats.level1Hits++
	case types.LevelSemantic:
		t.stats.level2Hits++
	case types.LevelTemplate:
		t.stats.level3Hits++
	}
	t.stats.tokensSaved += int64(entry.Tokens)
	t.stats.costSaved += entry.Cost
	t.mu.Unlock()

	t.metrics.RecordCacheHit(string(level), entry.Tokens, entry.Cost)
}
