// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pdiddy/place-finder/internal/cache"
	"github.com/pdiddy/place-finder/internal/provider"
	"github.com/pdiddy/place-finder/internal/ratelimit"
	"github.com/pdiddy/place-finder/internal/search"
	"github.com/pdiddy/place-finder/pkg/types"
)

// loadAppConfig reads the full configuration from viper and fills defaults
// and secrets. Provider API keys fall back to .secrets/<name>-api-key.
func loadAppConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Search.UserAgent == "" {
		cfg.Search.UserAgent = "place-finder/" + version
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 20
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = cache.DefaultTTL
	}

	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.Name == "" {
			p.Name = string(p.Kind)
		}
		p.APIKey = secretDefault(p.Name+"-api-key", p.APIKey)
	}

	return cfg, nil
}

// buildEngine assembles the orchestrator and its shared state from the
// configuration. The returned cleanup releases the cache store.
func buildEngine(cfg types.AppConfig) (*search.Engine, func(), error) {
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	resultCache := cache.New(store, cfg.Cache.TTL, logger)

	client := &http.Client{Timeout: cfg.Search.Timeout}
	adapters := make([]provider.Adapter, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		a, err := provider.New(p, client)
		if err != nil {
			resultCache.Close()
			return nil, nil, err
		}
		adapters = append(adapters, a)
	}

	limiter := ratelimit.New(cfg.Providers, cfg.Search.RateLimit, logger)
	engine := search.NewEngine(adapters, resultCache, limiter, cfg, logger)

	cleanup := func() {
		if err := resultCache.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing cache")
		}
	}
	return engine, cleanup, nil
}
