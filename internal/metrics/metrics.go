// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for the search pipeline.
// Every error the pipeline swallows (dropped listing, degraded cache,
// unlimited rate-limit fallback) increments a counter here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListingsDropped counts raw listings discarded during normalization.
	ListingsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_finder_listings_dropped_total",
		Help: "Raw listings dropped during normalization, by provider and reason.",
	}, []string{"provider", "reason"})

	// ProviderFailures counts adapter calls that failed after retries.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_finder_provider_failures_total",
		Help: "Provider adapter failures after retry, by provider and error kind.",
	}, []string{"provider", "kind"})

	// CacheHits counts fresh cache entries served.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_finder_cache_hits_total",
		Help: "Cache lookups served from a fresh entry.",
	})

	// CacheMisses counts lookups that required a fetch, including expired entries.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_finder_cache_misses_total",
		Help: "Cache lookups that missed or hit an expired entry.",
	})

	// CacheCoalesced counts callers that waited on another caller's fetch.
	CacheCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_finder_cache_coalesced_total",
		Help: "Cache callers that shared an already in-flight fetch.",
	})

	// CacheStoreErrors counts backend failures degraded to misses.
	CacheStoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_finder_cache_store_errors_total",
		Help: "Cache backend errors degraded to miss behavior.",
	})

	// RateLimitTimeouts counts acquires that exceeded the max wait.
	RateLimitTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_finder_ratelimit_timeouts_total",
		Help: "Rate limiter acquires that timed out, by provider.",
	}, []string{"provider"})

	// RateLimitUnlimited counts acquires for providers with no configured bucket.
	RateLimitUnlimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_finder_ratelimit_unlimited_total",
		Help: "Acquires admitted without a bucket (unlimited fallback).",
	}, []string{"provider"})
)
