package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/tokensave/types"
)

// ErrCacheMiss indicates the key holds no live entry.
var ErrCacheMiss = errors.New("cache miss")

// Backend names accepted in Config.Backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backend is a capability-bounded key/value store for cache entries.
//
// Implementations return ErrCacheMiss for absent or expired keys and a
// *types.Error (ErrBackendOperation or ErrSerializationFailed) for
// failures. Callers treat any failure as a miss or a no-op; no backend
// error ever aborts the request that triggered it.
type Backend interface {
	Get(ctx context.Context, key string) (*types.CacheEntry, error)
	Set(ctx context.Context, key string, entry *types.CacheEntry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// Name identifies the backend in logs.
	Name() string

	// Close releases the backend's resources. Lifecycle is owned by the
	// host application that constructed the cache.
	Close() error
}

// Constructor builds one backend candidate. Failure means "fall through to
// the next candidate", not "fail the cache".
type Constructor struct {
	Name  string
	Build func(cfg Config, logger *zap.Logger) (Backend, error)
}

// DefaultConstructors maps backend names to constructors. The memory
// backend never fails, so a chain ending in it always produces a backend.
func DefaultConstructors() map[string]Constructor {
	return map[string]Constructor{
		BackendRedis: {
			Name: BackendRedis,
			Build: func(cfg Config, logger *zap.Logger) (Backend, error) {
				return NewRedisBackend(cfg.Redis, logger)
			},
		},
		BackendSQLite: {
			Name: BackendSQLite,
			Build: func(cfg Config, logger *zap.Logger) (Backend, error) {
				return NewSQLiteBackend(cfg.SQLitePath, logger)
			},
		},
		BackendMemory: {
			Name: BackendMemory,
			Build: func(cfg Config, logger *zap.Logger) (Backend, error) {
				return NewMemoryBackend(cfg.MemoryMaxEntries), nil
			},
		},
	}
}

// NewBackendChain tries cfg.Backends in order and returns the first backend
// that constructs successfully. Initialization failures are logged and
// skipped; they never surface at call time. If every configured candidate
// fails (or the list is empty), an in-process memory backend is returned so
// the cache is at worst equivalent to having no cache.
func NewBackendChain(cfg Config, logger *zap.Logger) Backend {
	if logger == nil {
		logger = zap.NewNop()
	}

	constructors := DefaultConstructors()
	for _, name := range cfg.Backends {
		ctor, ok := constructors[name]
		if !ok {
			logger.Warn("unknown cache backend in config", zap.String("backend", name))
			continue
		}
		backend, err := ctor.Build(cfg, logger)
		if err != nil {
			logger.Warn("cache backend unavailable, falling back",
				zap.String("backend", name),
				zap.Error(types.NewError(types.ErrBackendUnavailable, name).WithCause(err)))
			continue
		}
		logger.Info("cache backend selected", zap.String("backend", backend.Name()))
		return backend
	}

	logger.Info("cache backend selected", zap.String("backend", BackendMemory))
	return NewMemoryBackend(cfg.MemoryMaxEntries)
}
