// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search orchestrates a place search: cache lookup, rate-limited
// concurrent provider fan-out, normalization, dedup/merge, cache store, and
// post-merge filtering and sorting. Partial provider failure yields usable
// results plus failure metadata; total failure fails the search and caches
// nothing.
// See docs/ARCHITECTURE.md § Orchestrator.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/place-finder/internal/cache"
	"github.com/pdiddy/place-finder/internal/dedupe"
	"github.com/pdiddy/place-finder/internal/metrics"
	"github.com/pdiddy/place-finder/internal/normalize"
	"github.com/pdiddy/place-finder/internal/provider"
	"github.com/pdiddy/place-finder/internal/ratelimit"
	"github.com/pdiddy/place-finder/pkg/types"
)

// ErrAllProvidersFailed is the terminal error when no adapter returned
// results. Nothing is cached in that case.
var ErrAllProvidersFailed = errors.New("all providers failed")

// ProviderFailure describes one adapter that failed after retries.
type ProviderFailure struct {
	Provider string             `json:"provider" yaml:"provider"`
	Kind     provider.ErrorKind `json:"kind" yaml:"kind"`
	Message  string             `json:"message" yaml:"message"`
}

// Output holds the final results plus fetch metadata. Failed lists the
// providers that failed during this caller's fetch; it is empty on a cache
// hit or when another caller's in-flight fetch was shared.
type Output struct {
	Results  types.MergedResultSet `json:"results" yaml:"results"`
	CacheHit bool                  `json:"cache_hit" yaml:"cache_hit"`
	Failed   []ProviderFailure     `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Engine is the search orchestrator. All shared state (cache, limiter) is
// injected at construction; the engine itself holds no globals.
type Engine struct {
	adapters []provider.Adapter
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	merger   *dedupe.Merger

	cfg           types.SearchConfig
	gridPrecision int
	log           zerolog.Logger
}

// NewEngine wires the orchestrator. Adapter order is significant: it is the
// discovery order used for merge tie-breaking, so a fixed configuration
// yields deterministic output.
func NewEngine(adapters []provider.Adapter, c *cache.Cache, limiter *ratelimit.Limiter, cfg types.AppConfig, log zerolog.Logger) *Engine {
	authoritative := make(map[string]bool)
	for _, p := range cfg.Providers {
		if p.Authoritative {
			name := p.Name
			if name == "" {
				name = string(p.Kind)
			}
			authoritative[name] = true
		}
	}

	return &Engine{
		adapters:      adapters,
		cache:         c,
		limiter:       limiter,
		merger:        dedupe.NewMerger(cfg.Search.Dedup, authoritative),
		cfg:           cfg.Search,
		gridPrecision: cfg.Cache.GridPrecision,
		log:           log,
	}
}

// Search runs one place search end to end. Filtering and sorting always run
// after merging, so filters see deduplicated data.
func (e *Engine) Search(ctx context.Context, query types.Query) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide a search term")
	}
	if !query.Location().Valid() {
		return Output{}, fmt.Errorf("query location out of range: (%f, %f)", query.Lat, query.Lng)
	}
	if len(e.adapters) == 0 {
		return Output{}, fmt.Errorf("no providers configured")
	}

	fingerprint := cache.Fingerprint(query, e.gridPrecision)

	var failed []ProviderFailure
	results, hit, err := e.cache.GetOrFetch(ctx, fingerprint, func(ctx context.Context) (types.MergedResultSet, error) {
		rs, fetchFailed, err := e.fetchAndMerge(ctx, query, fingerprint)
		failed = fetchFailed
		return rs, err
	})
	if err != nil {
		return Output{Failed: failed}, err
	}

	fillDistances(results.Businesses, query.Location())
	results.Businesses = applyFilters(results.Businesses, query.Filters)
	sortBusinesses(results.Businesses, query.Filters.Sort)

	maxResults := e.cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	if len(results.Businesses) > maxResults {
		results.Businesses = results.Businesses[:maxResults]
	}

	return Output{Results: results, CacheHit: hit, Failed: failed}, nil
}

// Invalidate drops the cached result set for a query.
func (e *Engine) Invalidate(ctx context.Context, query types.Query) error {
	return e.cache.Invalidate(ctx, cache.Fingerprint(query, e.gridPrecision))
}

// fetchAndMerge fans the query out to every adapter concurrently, gated by
// the per-provider rate limiter, then normalizes and merges the combined
// listings. It waits for every adapter to finish or hit its own timeout;
// merging never starts on a partial set by race, only by explicit failure.
func (e *Engine) fetchAndMerge(ctx context.Context, query types.Query, fingerprint string) (types.MergedResultSet, []ProviderFailure, error) {
	type adapterResult struct {
		index    int
		name     string
		listings []types.RawListing
		err      error
	}

	// Buffered so abandoned goroutines never block after the caller is
	// cancelled.
	ch := make(chan adapterResult, len(e.adapters))
	var wg sync.WaitGroup

	for i, a := range e.adapters {
		wg.Add(1)
		go func(index int, a provider.Adapter) {
			defer wg.Done()
			listings, err := e.callAdapter(ctx, a, query)
			ch <- adapterResult{index: index, name: a.Name(), listings: listings, err: err}
		}(i, a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Collect in adapter-invocation order so merge tie-breaking is
	// deterministic regardless of completion order.
	ordered := make([]adapterResult, len(e.adapters))
	for r := range ch {
		ordered[r.index] = r
	}

	var all []types.Business
	var failed []ProviderFailure
	succeeded := 0

	for _, r := range ordered {
		if r.err != nil {
			kind := provider.KindOf(r.err)
			metrics.ProviderFailures.WithLabelValues(r.name, string(kind)).Inc()
			e.log.Warn().Str("provider", r.name).Str("kind", string(kind)).Err(r.err).Msg("provider failed")
			failed = append(failed, ProviderFailure{Provider: r.name, Kind: kind, Message: r.err.Error()})
			continue
		}
		succeeded++
		all = append(all, e.normalizeAll(r.name, r.listings)...)
	}

	if succeeded == 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = f.Provider
		}
		return types.MergedResultSet{}, failed, fmt.Errorf("%w: %s", ErrAllProvidersFailed, strings.Join(names, ", "))
	}

	merged, removed := e.merger.Merge(all)
	return types.MergedResultSet{
		Fingerprint: fingerprint,
		Businesses:  merged,
		FetchedAt:   time.Now(),
		DupsRemoved: removed,
	}, failed, nil
}

// callAdapter gates one adapter call behind the rate limiter and the
// adapter-local timeout.
func (e *Engine) callAdapter(ctx context.Context, a provider.Adapter, query types.Query) ([]types.RawListing, error) {
	if err := e.limiter.Acquire(ctx, a.Name()); err != nil {
		return nil, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	return a.Search(ctx, query, e.cfg)
}

// normalizeAll converts raw listings to businesses, dropping and counting
// malformed ones.
func (e *Engine) normalizeAll(providerName string, listings []types.RawListing) []types.Business {
	out := make([]types.Business, 0, len(listings))
	for _, raw := range listings {
		b, err := normalize.Normalize(raw)
		if err != nil {
			metrics.ListingsDropped.WithLabelValues(providerName, "malformed").Inc()
			e.log.Debug().Str("provider", providerName).Err(err).Msg("dropped malformed listing")
			continue
		}
		out = append(out, b)
	}
	return out
}

// fillDistances computes each business's great-circle distance from the
// query center.
func fillDistances(businesses []types.Business, center types.Coordinates) {
	for i := range businesses {
		businesses[i].DistanceMeters = dedupe.HaversineMeters(center, businesses[i].Coordinates)
	}
}
