// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/place-finder/pkg/types"
)

// redisKeyPrefix namespaces cache keys so the store can share a Redis
// instance with other tenants.
const redisKeyPrefix = "place-finder:cache:"

// RedisStore is the external shared cache backend. Redis handles TTL expiry
// itself; the cache layer's own expiry check stays authoritative either way.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Get returns the entry for the fingerprint, or nil when absent.
func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry types.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores the entry with a Redis TTL matching its expiry.
func (s *RedisStore) Set(ctx context.Context, entry types.CacheEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, redisKeyPrefix+entry.Fingerprint, payload, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for the fingerprint.
func (s *RedisStore) Delete(ctx context.Context, fingerprint string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Purge removes every namespaced entry.
func (s *RedisStore) Purge(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("purging cache key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cache keys: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
