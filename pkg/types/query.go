// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strings"
)

// Query holds the search parameters. A query is immutable once issued; the
// orchestrator and cache only ever read it.
type Query struct {
	// Text is the free-text search term (e.g. "barbers").
	Text string `json:"text" yaml:"text"`

	// Lat/Lng center the search. Free-text addresses are not accepted;
	// callers geocode before building a Query.
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`

	// RadiusMeters bounds the search area around the center.
	RadiusMeters float64 `json:"radius_meters" yaml:"radius_meters"`

	Filters FilterSpec `json:"filters" yaml:"filters"`
}

// IsEmpty reports whether the query contains no searchable text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Location returns the query center as Coordinates.
func (q Query) Location() Coordinates {
	return Coordinates{Lat: q.Lat, Lng: q.Lng}
}

// SortKey selects the post-merge ordering of results.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByPrice    SortKey = "price"
	SortByName     SortKey = "name"
)

// FilterSpec narrows a merged result set. Filters run only after merging so
// they see deduplicated data.
type FilterSpec struct {
	// MinRating drops businesses rated below this 0-5 value. Businesses
	// with no rating are dropped only when MinRating > 0.
	MinRating float64 `json:"min_rating,omitempty" yaml:"min_rating,omitempty"`

	// MinReviews drops businesses with fewer reviews.
	MinReviews int `json:"min_reviews,omitempty" yaml:"min_reviews,omitempty"`

	// MaxPriceTier drops businesses above this 1-4 tier. 0 disables.
	MaxPriceTier int `json:"max_price_tier,omitempty" yaml:"max_price_tier,omitempty"`

	// OpenNow keeps only businesses known to be open. Unknown open state
	// does not pass the filter.
	OpenNow bool `json:"open_now,omitempty" yaml:"open_now,omitempty"`

	// Category keeps only businesses whose category contains this value
	// (case-insensitive).
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// LeadsOnly keeps only businesses with a missing or low-effort website
	// (social profile, link aggregator).
	LeadsOnly bool `json:"leads_only,omitempty" yaml:"leads_only,omitempty"`

	// Sort orders the filtered results. Empty means distance.
	Sort SortKey `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// Canonical returns a stable key=value encoding of the filter set, with keys
// sorted, for use in query fingerprints. Zero-valued filters are omitted so
// an unset filter and a defaulted one fingerprint identically.
func (f FilterSpec) Canonical() string {
	kv := map[string]string{}
	if f.MinRating > 0 {
		kv["min_rating"] = fmt.Sprintf("%.2f", f.MinRating)
	}
	if f.MinReviews > 0 {
		kv["min_reviews"] = fmt.Sprintf("%d", f.MinReviews)
	}
	if f.MaxPriceTier > 0 {
		kv["max_price_tier"] = fmt.Sprintf("%d", f.MaxPriceTier)
	}
	if f.OpenNow {
		kv["open_now"] = "true"
	}
	if f.Category != "" {
		kv["category"] = strings.ToLower(strings.TrimSpace(f.Category))
	}
	if f.LeadsOnly {
		kv["leads_only"] = "true"
	}
	if f.Sort != "" && f.Sort != SortByDistance {
		kv["sort"] = string(f.Sort)
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+kv[k])
	}
	return strings.Join(parts, "&")
}
