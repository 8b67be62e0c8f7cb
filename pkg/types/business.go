// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the place-finder pipeline.
// See docs/ARCHITECTURE.md § Data Model.
package types

import "time"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether the point lies inside the legal lat/lng range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// RawListing is a provider-tagged listing as returned by one backend, before
// normalization. Adapters translate their wire format into this shape and
// declare the native scales the normalizer needs (rating scale, raw price
// form). Pointer fields distinguish "absent" from zero values.
type RawListing struct {
	// Provider is the adapter name that produced this listing.
	Provider string `json:"provider"`

	// ProviderID is the provider's stable identifier for the place.
	ProviderID string `json:"provider_id"`

	Name     string   `json:"name"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Address  string   `json:"address,omitempty"`
	Category string   `json:"category,omitempty"`
	Website  string   `json:"website,omitempty"`

	// Rating is the provider's native rating value; RatingScale is the
	// maximum of that native scale (5 for Google and Yelp, 10 for
	// Foursquare). RatingScale 0 means the provider reported no rating.
	Rating      float64 `json:"rating,omitempty"`
	RatingScale float64 `json:"rating_scale,omitempty"`

	// PriceRaw is the provider's native price field, untranslated
	// (e.g. "PRICE_LEVEL_MODERATE", "2", "$$"). Empty means unreported.
	PriceRaw string `json:"price_raw,omitempty"`

	// OpenNow is nil when the provider did not report open state.
	OpenNow *bool `json:"open_now,omitempty"`

	ReviewCount int `json:"review_count,omitempty"`
}

// Business is the canonical, normalized place record. Optional fields are
// pointers so "unknown" survives merging; openNow in particular must never
// be guessed on a tied vote.
type Business struct {
	Name        string      `json:"name" yaml:"name"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Address     string      `json:"address,omitempty" yaml:"address,omitempty"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	Website     string      `json:"website,omitempty" yaml:"website,omitempty"`

	// Rating is on the canonical 0-5 scale regardless of provider.
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`

	// PriceTier is the canonical 1-4 price tier.
	PriceTier *int `json:"price_tier,omitempty" yaml:"price_tier,omitempty"`

	OpenNow     *bool `json:"open_now,omitempty" yaml:"open_now,omitempty"`
	ReviewCount int   `json:"review_count,omitempty" yaml:"review_count,omitempty"`

	// SourceIDs maps provider name to that provider's id for this place.
	// After a merge it is the union of every contributing provider.
	SourceIDs map[string]string `json:"source_ids" yaml:"source_ids"`

	// Provenance maps a field name to the provider it came from, for every
	// merged field the sources did not unanimously agree on.
	Provenance map[string]string `json:"provenance,omitempty" yaml:"provenance,omitempty"`

	// DistanceMeters is the great-circle distance from the query location,
	// filled by the orchestrator after merging.
	DistanceMeters float64 `json:"distance_meters,omitempty" yaml:"distance_meters,omitempty"`
}

// Clone returns a deep copy. Cached result sets are shared between callers,
// so everything handed out must be a copy.
func (b Business) Clone() Business {
	out := b
	if b.Rating != nil {
		v := *b.Rating
		out.Rating = &v
	}
	if b.PriceTier != nil {
		v := *b.PriceTier
		out.PriceTier = &v
	}
	if b.OpenNow != nil {
		v := *b.OpenNow
		out.OpenNow = &v
	}
	if b.SourceIDs != nil {
		out.SourceIDs = make(map[string]string, len(b.SourceIDs))
		for k, v := range b.SourceIDs {
			out.SourceIDs[k] = v
		}
	}
	if b.Provenance != nil {
		out.Provenance = make(map[string]string, len(b.Provenance))
		for k, v := range b.Provenance {
			out.Provenance[k] = v
		}
	}
	return out
}

// MergedResultSet is an ordered, deduplicated set of businesses for one
// query fingerprint. No two entries match the duplicate predicate.
type MergedResultSet struct {
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	Businesses  []Business `json:"businesses" yaml:"businesses"`
	FetchedAt   time.Time  `json:"fetched_at" yaml:"fetched_at"`
	DupsRemoved int        `json:"dups_removed,omitempty" yaml:"dups_removed,omitempty"`
}

// Clone returns a deep copy of the result set.
func (rs MergedResultSet) Clone() MergedResultSet {
	out := rs
	out.Businesses = make([]Business, len(rs.Businesses))
	for i, b := range rs.Businesses {
		out.Businesses[i] = b.Clone()
	}
	return out
}

// CacheEntry is the serialized form stored by a cache backend.
type CacheEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Results     MergedResultSet `json:"results"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
