// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"

	"github.com/pdiddy/place-finder/pkg/types"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func TestIsLead(t *testing.T) {
	tests := []struct {
		name    string
		website string
		want    bool
	}{
		{"no website", "", true},
		{"facebook profile", "https://www.facebook.com/joespizza", true},
		{"instagram profile", "https://instagram.com/joespizza", true},
		{"link aggregator", "https://linktr.ee/joespizza", true},
		{"real website", "https://joespizzanyc.com", false},
		{"real website with path", "https://joespizzanyc.com/menu", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := types.Business{Name: "Joe's Pizza", Website: tt.website}
			if got := IsLead(b); got != tt.want {
				t.Errorf("IsLead(%q) = %v, want %v", tt.website, got, tt.want)
			}
		})
	}
}

func TestApplyFilters(t *testing.T) {
	businesses := []types.Business{
		{Name: "Rated High", Rating: fptr(4.5), ReviewCount: 100, PriceTier: iptr(2), OpenNow: bptr(true), Category: "Pizza"},
		{Name: "Rated Low", Rating: fptr(3.0), ReviewCount: 500, PriceTier: iptr(1), OpenNow: bptr(true), Category: "Pizza"},
		{Name: "Unknown Fields", Category: "Pizza"},
		{Name: "Pricey", Rating: fptr(4.8), ReviewCount: 50, PriceTier: iptr(4), OpenNow: bptr(false), Category: "Sushi"},
	}

	clone := func() []types.Business {
		out := make([]types.Business, len(businesses))
		copy(out, businesses)
		return out
	}

	t.Run("min rating drops low and unknown", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{MinRating: 4.0})
		if len(got) != 2 {
			t.Fatalf("got %d, want 2", len(got))
		}
		if got[0].Name != "Rated High" || got[1].Name != "Pricey" {
			t.Errorf("unexpected survivors: %v, %v", got[0].Name, got[1].Name)
		}
	})

	t.Run("min reviews", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{MinReviews: 200})
		if len(got) != 1 || got[0].Name != "Rated Low" {
			t.Fatalf("got %v, want only the heavily reviewed record", got)
		}
	})

	t.Run("max price drops expensive and unknown", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{MaxPriceTier: 2})
		if len(got) != 2 {
			t.Fatalf("got %d, want 2", len(got))
		}
	})

	t.Run("open now drops closed and unknown", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{OpenNow: true})
		if len(got) != 2 {
			t.Fatalf("got %d, want 2", len(got))
		}
	})

	t.Run("category substring match", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{Category: "pizza"})
		if len(got) != 3 {
			t.Fatalf("got %d, want 3", len(got))
		}
	})

	t.Run("leads only", func(t *testing.T) {
		in := []types.Business{
			{Name: "Has Site", Website: "https://example.com"},
			{Name: "No Site"},
			{Name: "Social Only", Website: "https://facebook.com/x"},
		}
		got := applyFilters(in, types.FilterSpec{LeadsOnly: true})
		if len(got) != 2 {
			t.Fatalf("got %d, want 2 leads", len(got))
		}
	})

	t.Run("no filters keeps everything", func(t *testing.T) {
		got := applyFilters(clone(), types.FilterSpec{})
		if len(got) != len(businesses) {
			t.Fatalf("got %d, want %d", len(got), len(businesses))
		}
	})
}

func TestSortBusinesses(t *testing.T) {
	mk := func() []types.Business {
		return []types.Business{
			{Name: "bravo", Rating: fptr(3.0), PriceTier: iptr(3), DistanceMeters: 300},
			{Name: "Alpha", Rating: fptr(5.0), PriceTier: iptr(1), DistanceMeters: 100},
			{Name: "charlie", DistanceMeters: 200},
		}
	}

	t.Run("default distance ascending", func(t *testing.T) {
		in := mk()
		sortBusinesses(in, "")
		if in[0].Name != "Alpha" || in[1].Name != "charlie" || in[2].Name != "bravo" {
			t.Errorf("order = %v %v %v", in[0].Name, in[1].Name, in[2].Name)
		}
	})

	t.Run("rating descending with unknown last", func(t *testing.T) {
		in := mk()
		sortBusinesses(in, types.SortByRating)
		if in[0].Name != "Alpha" || in[2].Name != "charlie" {
			t.Errorf("order = %v %v %v", in[0].Name, in[1].Name, in[2].Name)
		}
	})

	t.Run("price ascending with unknown last", func(t *testing.T) {
		in := mk()
		sortBusinesses(in, types.SortByPrice)
		if in[0].Name != "Alpha" || in[2].Name != "charlie" {
			t.Errorf("order = %v %v %v", in[0].Name, in[1].Name, in[2].Name)
		}
	})

	t.Run("name case insensitive", func(t *testing.T) {
		in := mk()
		sortBusinesses(in, types.SortByName)
		if in[0].Name != "Alpha" || in[1].Name != "bravo" || in[2].Name != "charlie" {
			t.Errorf("order = %v %v %v", in[0].Name, in[1].Name, in[2].Name)
		}
	})
}
