// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider translates canonical queries into provider-specific API
// calls and provider responses into canonical raw listings. Each backend
// (Google Places, Foursquare, Yelp) implements the Adapter interface per the
// Strategy pattern; the orchestrator treats all adapters uniformly.
// See docs/ARCHITECTURE.md § Providers.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/place-finder/pkg/types"
)

// Adapter searches a single place-search backend.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.RawListing, error)
}

// New constructs the adapter for a provider configuration.
func New(cfg types.ProviderConfig, client *http.Client) (Adapter, error) {
	name := cfg.Name
	if name == "" {
		name = string(cfg.Kind)
	}
	switch cfg.Kind {
	case types.ProviderGooglePlaces:
		return &GooglePlacesAdapter{name: name, Client: client, APIKey: cfg.APIKey, MaxPages: cfg.MaxPages}, nil
	case types.ProviderFoursquare:
		return &FoursquareAdapter{name: name, Client: client, APIKey: cfg.APIKey}, nil
	case types.ProviderYelp:
		return &YelpAdapter{name: name, Client: client, APIKey: cfg.APIKey}, nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}
