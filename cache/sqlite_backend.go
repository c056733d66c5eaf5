package cache

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/tokensave/types"
)

// cacheRecord is the durable row form of a cache entry.
type cacheRecord struct {
	Key       string  `gorm:"primaryKey;column:key"`
	Content   string  `gorm:"column:content"`
	Tokens    int     `gorm:"column:tokens"`
	Cost      float64 `gorm:"column:cost"`
	Tier      string  `gorm:"column:tier"`
	CreatedAt int64   `gorm:"column:created_at"`
	ExpiresAt int64   `gorm:"column:expires_at;index"`
}

func (cacheRecord) TableName() string { return "cache_entries" }

// SQLiteBackend is the durable file-backed store. Expiry is an expires_at
// column enforced on every read; expired rows are deleted lazily on access.
type SQLiteBackend struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSQLiteBackend opens (or creates) the store at path and migrates its
// schema. Open or migration failure fails the constructor so the chain can
// fall back to the in-process backend.
func NewSQLiteBackend(path string, logger *zap.Logger) (*SQLiteBackend, error) {
	if path == "" {
		return nil, types.NewError(types.ErrBackendUnavailable, "sqlite path not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, types.NewError(types.ErrBackendUnavailable, "open sqlite store").WithCause(err)
	}
	if err := db.AutoMigrate(&cacheRecord{}); err != nil {
		return nil, types.NewError(types.ErrBackendUnavailable, "migrate sqlite store").WithCause(err)
	}

	return &SQLiteBackend{
		db:     db,
		logger: logger.With(zap.String("component", "sqlite_backend")),
	}, nil
}

// Name returns "sqlite".
func (b *SQLiteBackend) Name() string { return BackendSQLite }

// Get returns the live entry for key, deleting it first if it has expired.
func (b *SQLiteBackend) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	var rec cacheRecord
	err := b.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, types.NewError(types.ErrBackendOperation, "sqlite get failed").WithCause(err)
	}

	if rec.ExpiresAt > 0 && time.Now().Unix() > rec.ExpiresAt {
		if err := b.db.WithContext(ctx).Delete(&cacheRecord{}, "key = ?", key).Error; err != nil {
			b.logger.Warn("sqlite expired-row delete failed", zap.String("key", key), zap.Error(err))
		}
		return nil, ErrCacheMiss
	}

	return &types.CacheEntry{
		Content:   rec.Content,
		Tokens:    rec.Tokens,
		Cost:      rec.Cost,
		Tier:      rec.Tier,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Set upserts the entry with its absolute expiry time.
func (b *SQLiteBackend) Set(ctx context.Context, key string, entry *types.CacheEntry, ttl time.Duration) error {
	var expiresAt int64
	if ttl != 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	rec := cacheRecord{
		Key:       key,
		Content:   entry.Content,
		Tokens:    entry.Tokens,
		Cost:      entry.Cost,
		Tier:      entry.Tier,
		CreatedAt: entry.CreatedAt,
		ExpiresAt: expiresAt,
	}

	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return types.NewError(types.ErrBackendOperation, "sqlite set failed").WithCause(err)
	}
	return nil
}

// Delete removes key.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Delete(&cacheRecord{}, "key = ?", key).Error; err != nil {
		return types.NewError(types.ErrBackendOperation, "sqlite delete failed").WithCause(err)
	}
	return nil
}

// Clear removes every stored entry.
func (b *SQLiteBackend) Clear(ctx context.Context) error {
	if err := b.db.WithContext(ctx).Where("1 = 1").Delete(&cacheRecord{}).Error; err != nil {
		return types.NewError(types.ErrBackendOperation, "sqlite clear failed").WithCause(err)
	}
	return nil
}

// Close closes the underlying database handle.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
