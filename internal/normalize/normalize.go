// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps provider raw listings into canonical Business
// records: ratings onto the 0-5 scale, prices onto the 1-4 tier, open state
// onto a tri-state boolean. Normalize is a pure function; callers drop
// malformed listings and count the drops.
// See docs/ARCHITECTURE.md § Normalizer.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/place-finder/pkg/types"
)

// ErrMalformedListing marks a listing missing required fields (name,
// coordinates) or carrying out-of-range coordinates. Such listings are
// dropped, never propagated.
var ErrMalformedListing = errors.New("malformed listing")

// googlePriceLevels translates the Places API (New) price enum onto the
// canonical 1-4 tier.
var googlePriceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           1,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// Normalize converts a raw listing into a canonical Business. The returned
// record carries single-source provenance: every present field is attributed
// to the listing's provider.
func Normalize(raw types.RawListing) (types.Business, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return types.Business{}, fmt.Errorf("%w: missing name", ErrMalformedListing)
	}
	if raw.Lat == nil || raw.Lng == nil {
		return types.Business{}, fmt.Errorf("%w: missing coordinates", ErrMalformedListing)
	}

	coords := types.Coordinates{Lat: *raw.Lat, Lng: *raw.Lng}
	if !coords.Valid() {
		return types.Business{}, fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrMalformedListing, coords.Lat, coords.Lng)
	}

	b := types.Business{
		Name:        name,
		Coordinates: coords,
		Address:     strings.TrimSpace(raw.Address),
		Category:    strings.TrimSpace(raw.Category),
		Website:     strings.TrimSpace(raw.Website),
		ReviewCount: raw.ReviewCount,
		OpenNow:     raw.OpenNow,
		SourceIDs:   map[string]string{raw.Provider: raw.ProviderID},
		Provenance:  map[string]string{},
	}

	if r, ok := normalizeRating(raw.Rating, raw.RatingScale); ok {
		b.Rating = &r
	}
	if tier, ok := normalizePrice(raw.PriceRaw); ok {
		b.PriceTier = &tier
	}

	for _, f := range presentFields(b) {
		b.Provenance[f] = raw.Provider
	}

	return b, nil
}

// normalizeRating coerces a provider-native rating onto the 0-5 scale using
// the scale the adapter declared (e.g. Foursquare's 0-10 halves).
func normalizeRating(value, scale float64) (float64, bool) {
	if scale <= 0 || value < 0 || value > scale {
		return 0, false
	}
	r := value * 5 / scale
	return math.Round(r*100) / 100, true
}

// normalizePrice coerces a provider-native price field onto the 1-4 tier.
// Google uses PRICE_LEVEL_* enums, Foursquare numeric 1-4, Yelp "$".."$$$$".
// The three forms are disjoint, so one cascade covers every provider.
func normalizePrice(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if tier, ok := googlePriceLevels[raw]; ok {
		return tier, true
	}
	if strings.Trim(raw, "$") == "" {
		return clampTier(len(raw)), true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return clampTier(n), true
	}

	return 0, false
}

func clampTier(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

// presentFields lists the mergeable field names a record actually carries,
// for provenance bookkeeping.
func presentFields(b types.Business) []string {
	fields := []string{"name", "coordinates"}
	if b.Address != "" {
		fields = append(fields, "address")
	}
	if b.Category != "" {
		fields = append(fields, "category")
	}
	if b.Website != "" {
		fields = append(fields, "website")
	}
	if b.Rating != nil {
		fields = append(fields, "rating")
	}
	if b.PriceTier != nil {
		fields = append(fields, "price_tier")
	}
	if b.OpenNow != nil {
		fields = append(fields, "open_now")
	}
	return fields
}
