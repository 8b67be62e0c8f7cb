// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"fmt"

	"github.com/pdiddy/place-finder/pkg/types"
)

// NewStore builds the configured cache backend. An empty backend selects
// the in-process store.
func NewStore(cfg types.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", types.CacheMemory:
		return NewMemoryStore(), nil
	case types.CacheSQLite:
		dir := cfg.Dir
		if dir == "" {
			dir = "cache"
		}
		return NewSQLiteStore(dir)
	case types.CacheRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache backend requires redis_addr")
		}
		return NewRedisStore(cfg.RedisAddr), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
