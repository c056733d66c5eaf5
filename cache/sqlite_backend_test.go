package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/tokensave/types"
)

func setupTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()

	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLiteBackend_SetAndGet(t *testing.T) {
	backend := setupTestSQLite(t)
	ctx := context.Background()

	entry := &types.CacheEntry{
		Content:   "Hi there",
		Tokens:    10,
		Cost:      0.00001,
		Tier:      "nano",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, backend.Set(ctx, "k1", entry, time.Minute))

	got, err := backend.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, entry.Content, got.Content)
	assert.Equal(t, entry.Tokens, got.Tokens)
	assert.Equal(t, entry.Cost, got.Cost)
	assert.Equal(t, entry.Tier, got.Tier)
}

func TestSQLiteBackend_Overwrite(t *testing.T) {
	backend := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k1", &types.CacheEntry{Content: "old"}, time.Minute))
	require.NoError(t, backend.Set(ctx, "k1", &types.CacheEntry{Content: "new"}, time.Minute))

	got, err := backend.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
}

func TestSQLiteBackend_Expiry(t *testing.T) {
	backend := setupTestSQLite(t)
	ctx := context.Background()

	// a negative TTL stores an already-expired row
	require.NoError(t, backend.Set(ctx, "k1", &types.CacheEntry{Content: "v"}, -time.Second))

	_, err := backend.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// the expired row was deleted, not just skipped
	var count int64
	require.NoError(t, backend.db.Model(&cacheRecord{}).Where("key = ?", "k1").Count(&count).Error)
	assert.Zero(t, count)
}

func TestSQLiteBackend_DeleteAndClear(t *testing.T) {
	backend := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k1", &types.CacheEntry{Content: "v1"}, time.Minute))
	require.NoError(t, backend.Set(ctx, "k2", &types.CacheEntry{Content: "v2"}, time.Minute))

	require.NoError(t, backend.Delete(ctx, "k1"))
	_, err := backend.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, backend.Clear(ctx))
	_, err = backend.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	first, err := NewSQLiteBackend(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k1", &types.CacheEntry{Content: "durable"}, time.Hour))
	require.NoError(t, first.Close())

	second, err := NewSQLiteBackend(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Content)
}
