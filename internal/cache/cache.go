// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores merged result sets keyed by query fingerprint, with
// TTL expiry and at-most-one in-flight fetch per fingerprint. Storage is
// pluggable: in-process memory, SQLite, or Redis. Backend failures degrade
// to miss behavior rather than failing the search.
// See docs/ARCHITECTURE.md § Cache.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/place-finder/internal/metrics"
	"github.com/pdiddy/place-finder/pkg/types"
)

// DefaultTTL is how long entries stay fresh when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Store is the key-value boundary a cache backend implements. Get returns
// (nil, nil) for an absent key.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error)
	Set(ctx context.Context, entry types.CacheEntry) error
	Delete(ctx context.Context, fingerprint string) error
	Purge(ctx context.Context) error
	Close() error
}

// FetchFunc produces a result set on a cache miss.
type FetchFunc func(ctx context.Context) (types.MergedResultSet, error)

// Cache coalesces concurrent fetches per fingerprint and hands every caller
// its own deep copy, so no caller can mutate a shared entry.
type Cache struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
	group singleflight.Group

	// now is replaceable in tests.
	now func() time.Time
}

// New builds a cache over the given store. A zero ttl selects DefaultTTL.
func New(store Store, ttl time.Duration, log zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, log: log, now: time.Now}
}

// GetOrFetch returns the cached result set for the fingerprint, fetching on
// a miss. Concurrent callers for the same fingerprint during a miss all
// await the single outstanding fetch. The boolean reports a cache hit.
// Nothing is stored when fetch fails.
func (c *Cache) GetOrFetch(ctx context.Context, fingerprint string, fetch FetchFunc) (types.MergedResultSet, bool, error) {
	if entry := c.lookup(ctx, fingerprint); entry != nil {
		metrics.CacheHits.Inc()
		return entry.Results.Clone(), true, nil
	}
	metrics.CacheMisses.Inc()

	v, err, shared := c.group.Do(fingerprint, func() (interface{}, error) {
		// A concurrent caller may have completed the fetch and stored the
		// entry between our lookup and joining the flight group.
		if entry := c.lookup(ctx, fingerprint); entry != nil {
			return entry.Results, nil
		}

		results, err := fetch(ctx)
		if err != nil {
			return types.MergedResultSet{}, err
		}

		entry := types.CacheEntry{
			Fingerprint: fingerprint,
			Results:     results,
			ExpiresAt:   c.now().Add(c.ttl),
		}
		if err := c.store.Set(ctx, entry); err != nil {
			metrics.CacheStoreErrors.Inc()
			c.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache store failed; result not cached")
		}
		return results, nil
	})
	if err != nil {
		return types.MergedResultSet{}, false, err
	}
	if shared {
		metrics.CacheCoalesced.Inc()
	}

	return v.(types.MergedResultSet).Clone(), false, nil
}

// lookup returns a fresh entry or nil. Store errors and expired entries are
// both misses.
func (c *Cache) lookup(ctx context.Context, fingerprint string) *types.CacheEntry {
	entry, err := c.store.Get(ctx, fingerprint)
	if err != nil {
		metrics.CacheStoreErrors.Inc()
		c.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache read failed; treating as miss")
		return nil
	}
	if entry == nil || entry.Expired(c.now()) {
		return nil
	}
	return entry
}

// Invalidate removes an entry immediately regardless of TTL.
func (c *Cache) Invalidate(ctx context.Context, fingerprint string) error {
	return c.store.Delete(ctx, fingerprint)
}

// Flush removes every entry.
func (c *Cache) Flush(ctx context.Context) error {
	return c.store.Purge(ctx)
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
