// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by provider adapters.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. Each adapter call is also
	// bounded by this as its adapter-local deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests
	// (e.g. "place-finder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries caps retry attempts after a provider-side 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ProviderKind identifies a place-search backend implementation.
type ProviderKind string

const (
	ProviderGooglePlaces ProviderKind = "googleplaces"
	ProviderFoursquare   ProviderKind = "foursquare"
	ProviderYelp         ProviderKind = "yelp"
)

// ProviderConfig configures one place-search backend.
type ProviderConfig struct {
	// Name is the unique provider identifier used in source ids,
	// provenance and rate-limit buckets. Defaults to the kind.
	Name string `json:"name" yaml:"name"`

	// Kind selects the adapter implementation.
	Kind ProviderKind `json:"kind" yaml:"kind"`

	// APIKey authenticates against the provider. Loaded from secrets when
	// empty (file name "<name>-api-key").
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Authoritative marks this provider's field values as preferred when
	// merged sources disagree (name, address, category, website).
	Authoritative bool `json:"authoritative,omitempty" yaml:"authoritative,omitempty"`

	// MaxPages bounds pagination for providers that page results (default 1).
	MaxPages int `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`

	// RequestsPerSecond and Burst configure this provider's token bucket.
	// Zero RequestsPerSecond means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
	Burst             int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// CacheBackend selects the cache storage implementation.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
)

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// Backend selects the store: memory, sqlite, or redis.
	Backend CacheBackend `json:"backend" yaml:"backend"`

	// TTL is how long a cached result set stays fresh (default 5m).
	// Expired entries are treated as misses, never as errors.
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// GridPrecision is the number of decimal places query coordinates are
	// rounded to when fingerprinting, so near-identical queries share an
	// entry (default 4, roughly an 11 m grid).
	GridPrecision int `json:"grid_precision" yaml:"grid_precision"`

	// Dir is the directory holding the SQLite cache database.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// RedisAddr is the host:port of the Redis cache backend.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
}

// DedupConfig holds the duplicate predicate thresholds. These are design
// defaults, not contracts; tune per deployment.
type DedupConfig struct {
	// MaxDistanceMeters is the great-circle distance two records must be
	// within to be merge candidates (default 50).
	MaxDistanceMeters float64 `json:"max_distance_meters" yaml:"max_distance_meters"`

	// NameSimilarity is the minimum token-set Jaccard similarity of the
	// normalized names (default 0.6). Both conditions are required:
	// distance alone merges co-located neighbors, name alone merges chains.
	NameSimilarity float64 `json:"name_similarity" yaml:"name_similarity"`

	// BucketThreshold is the input size above which the spatial grid
	// pre-filter replaces the naive pairwise scan (default 200). The
	// pre-filter is a pure optimization; merge output is identical.
	BucketThreshold int `json:"bucket_threshold" yaml:"bucket_threshold"`
}

// WithDefaults returns the config with zero fields replaced by defaults.
func (c DedupConfig) WithDefaults() DedupConfig {
	if c.MaxDistanceMeters <= 0 {
		c.MaxDistanceMeters = 50
	}
	if c.NameSimilarity <= 0 {
		c.NameSimilarity = 0.6
	}
	if c.BucketThreshold <= 0 {
		c.BucketThreshold = 200
	}
	return c
}

// RateLimitConfig holds limiter-wide settings; per-provider buckets live in
// ProviderConfig.
type RateLimitConfig struct {
	// MaxWait bounds how long an acquire blocks before failing with a
	// timeout (default 30s).
	MaxWait time.Duration `json:"max_wait" yaml:"max_wait"`
}

// SearchConfig holds settings for the search orchestrator.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the final result list (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	Dedup     DedupConfig     `json:"dedup" yaml:"dedup"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

// AppConfig groups the full place-finder configuration surface.
type AppConfig struct {
	Providers []ProviderConfig `json:"providers" yaml:"providers"`
	Search    SearchConfig     `json:"search" yaml:"search"`
	Cache     CacheConfig      `json:"cache" yaml:"cache"`
}
