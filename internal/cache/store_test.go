// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/place-finder/pkg/types"
)

// exerciseStore runs the Store contract: absent keys, roundtrip, replace,
// delete, purge.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "absent key must return nil, nil")

	entry := types.CacheEntry{
		Fingerprint: "fp-1",
		Results:     resultSet("fp-1", "Joe's Pizza", "Blue Bottle Coffee"),
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.Set(ctx, entry))

	got, err = s.Get(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fp-1", got.Fingerprint)
	require.Len(t, got.Results.Businesses, 2)
	assert.Equal(t, "Joe's Pizza", got.Results.Businesses[0].Name)

	entry.Results = resultSet("fp-1", "Corner Deli")
	require.NoError(t, s.Set(ctx, entry))
	got, err = s.Get(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Results.Businesses, 1)

	require.NoError(t, s.Delete(ctx, "fp-1"))
	got, err = s.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set(ctx, entry))
	require.NoError(t, s.Purge(ctx))
	got, err = s.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreContract(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreSweepsExpired(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	stale := types.CacheEntry{
		Fingerprint: "stale",
		Results:     resultSet("stale"),
		ExpiresAt:   time.Now().Add(-time.Hour).UTC(),
	}
	require.NoError(t, s.Set(ctx, stale))

	fresh := types.CacheEntry{
		Fingerprint: "fresh",
		Results:     resultSet("fresh"),
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.Set(ctx, fresh))

	got, err := s.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got, "expired row should have been swept")

	got, err = s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	entry := types.CacheEntry{
		Fingerprint: "fp-1",
		Results:     resultSet("fp-1", "Joe's Pizza"),
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.Set(ctx, entry))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Joe's Pizza", got.Results.Businesses[0].Name)
}

func TestNewStoreSelection(t *testing.T) {
	s, err := NewStore(types.CacheConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(types.CacheConfig{Backend: types.CacheSQLite, Dir: filepath.Join(t.TempDir(), "cache")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = NewStore(types.CacheConfig{Backend: types.CacheRedis})
	assert.Error(t, err, "redis backend without an address must fail")

	_, err = NewStore(types.CacheConfig{Backend: "carrier-pigeon"})
	assert.Error(t, err)
}
