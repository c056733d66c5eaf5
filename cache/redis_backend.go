package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/tokensave/types"
)

const redisKeyPrefix = "tokensave:cache:"

// RedisBackend stores entries in a Redis-protocol server with server-side
// expiry. Construction pings the server; an unreachable server fails the
// constructor so the chain can fall back, never an individual call.
type RedisBackend struct {
	client    *redis.Client
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewRedisBackend connects to the configured server and verifies the
// connection with a bounded ping.
func NewRedisBackend(cfg RedisConfig, logger *zap.Logger) (*RedisBackend, error) {
	if cfg.Addr == "" {
		return nil, types.NewError(types.ErrBackendUnavailable, "redis addr not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, types.NewError(types.ErrBackendUnavailable, "redis ping failed").WithCause(err)
	}

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 2 * time.Second
	}

	return &RedisBackend{
		client:    client,
		opTimeout: opTimeout,
		logger:    logger.With(zap.String("component", "redis_backend")),
	}, nil
}

// Name returns "redis".
func (b *RedisBackend) Name() string { return BackendRedis }

// Get fetches and decodes the entry for key.
func (b *RedisBackend) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()

	data, err := b.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, types.NewError(types.ErrBackendOperation, "redis get failed").WithCause(err).WithRetryable(true)
	}

	var entry types.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, types.NewError(types.ErrSerializationFailed, "decode cache entry").WithCause(err)
	}
	return &entry, nil
}

// Set serializes the entry to a flat record and stores it with a
// server-enforced expiry.
func (b *RedisBackend) Set(ctx context.Context, key string, entry *types.CacheEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return types.NewError(types.ErrSerializationFailed, "encode cache entry").WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()

	if err := b.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return types.NewError(types.ErrBackendOperation, "redis set failed").WithCause(err).WithRetryable(true)
	}
	return nil
}

// Delete removes key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()

	if err := b.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return types.NewError(types.ErrBackendOperation, "redis del failed").WithCause(err).WithRetryable(true)
	}
	return nil
}

// Clear removes every entry under the cache prefix, scanning in batches so
// unrelated keys in the same database are untouched.
func (b *RedisBackend) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()

	iter := b.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := b.client.Del(ctx, iter.Val()).Err(); err != nil {
			b.logger.Warn("redis clear: delete failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		return types.NewError(types.ErrBackendOperation, "redis scan failed").WithCause(err).WithRetryable(true)
	}
	return nil
}

// Close closes the client connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
