// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"testing"

	"github.com/pdiddy/place-finder/pkg/types"
)

func ptr(v float64) *float64 { return &v }

func validListing() types.RawListing {
	return types.RawListing{
		Provider:   "googleplaces",
		ProviderID: "place-1",
		Name:       "Joe's Pizza",
		Lat:        ptr(40.0),
		Lng:        ptr(-74.0),
	}
}

func TestNormalizeRatingScales(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		scale float64
		want  float64
	}{
		{"five point scale passes through", 4.0, 5, 4.0},
		{"ten point scale halves", 9.0, 10, 4.5},
		{"ten point partial", 7.3, 10, 3.65},
		{"top of scale", 10.0, 10, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validListing()
			raw.Rating = tt.value
			raw.RatingScale = tt.scale

			b, err := Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if b.Rating == nil || *b.Rating != tt.want {
				t.Errorf("Rating = %v, want %v", b.Rating, tt.want)
			}
		})
	}
}

func TestNormalizeNoRating(t *testing.T) {
	b, err := Normalize(validListing())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if b.Rating != nil {
		t.Errorf("Rating = %v, want nil for unreported rating", *b.Rating)
	}
}

func TestNormalizePriceTiers(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"PRICE_LEVEL_INEXPENSIVE", 1},
		{"PRICE_LEVEL_MODERATE", 2},
		{"PRICE_LEVEL_EXPENSIVE", 3},
		{"PRICE_LEVEL_VERY_EXPENSIVE", 4},
		{"1", 1},
		{"4", 4},
		{"$", 1},
		{"$$$", 3},
		{"$$$$", 4},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			raw := validListing()
			raw.PriceRaw = tt.raw

			b, err := Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if b.PriceTier == nil || *b.PriceTier != tt.want {
				t.Errorf("PriceTier = %v, want %d", b.PriceTier, tt.want)
			}
		})
	}
}

func TestNormalizeUnknownPriceDropsField(t *testing.T) {
	raw := validListing()
	raw.PriceRaw = "cheap-ish"

	b, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if b.PriceTier != nil {
		t.Errorf("PriceTier = %v, want nil for unparseable price", *b.PriceTier)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.RawListing)
	}{
		{"missing name", func(r *types.RawListing) { r.Name = "  " }},
		{"missing latitude", func(r *types.RawListing) { r.Lat = nil }},
		{"missing longitude", func(r *types.RawListing) { r.Lng = nil }},
		{"latitude out of range", func(r *types.RawListing) { r.Lat = ptr(91) }},
		{"longitude out of range", func(r *types.RawListing) { r.Lng = ptr(-181) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validListing()
			tt.mutate(&raw)

			_, err := Normalize(raw)
			if !errors.Is(err, ErrMalformedListing) {
				t.Errorf("Normalize() error = %v, want ErrMalformedListing", err)
			}
		})
	}
}

func TestNormalizeProvenance(t *testing.T) {
	raw := validListing()
	raw.Rating = 8.0
	raw.RatingScale = 10
	raw.Address = "7 Carmine St"

	b, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if b.SourceIDs["googleplaces"] != "place-1" {
		t.Errorf("SourceIDs = %v, want googleplaces entry", b.SourceIDs)
	}
	for _, field := range []string{"name", "coordinates", "rating", "address"} {
		if b.Provenance[field] != "googleplaces" {
			t.Errorf("Provenance[%s] = %q, want googleplaces", field, b.Provenance[field])
		}
	}
	if _, ok := b.Provenance["price_tier"]; ok {
		t.Error("Provenance should not record absent fields")
	}
}
