// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/place-finder/pkg/types"
)

// lowEffortDomains are website hosts that count as "no real website" when
// classifying leads: social profiles, directories, link aggregators.
var lowEffortDomains = map[string]bool{
	"facebook.com":      true,
	"www.facebook.com":  true,
	"m.facebook.com":    true,
	"instagram.com":     true,
	"www.instagram.com": true,
	"yelp.com":          true,
	"www.yelp.com":      true,
	"linktr.ee":         true,
	"www.linktr.ee":     true,
	"goo.gl":            true,
	"maps.app.goo.gl":   true,
}

// IsLead reports whether a business has no website or only a low-effort one.
func IsLead(b types.Business) bool {
	if b.Website == "" {
		return true
	}
	return lowEffortDomains[domainOf(b.Website)]
}

func domainOf(website string) string {
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// applyFilters keeps the businesses matching every set filter. Filters run
// only on merged data; a business with an unknown optional field fails the
// corresponding filter rather than passing by default.
func applyFilters(businesses []types.Business, f types.FilterSpec) []types.Business {
	out := businesses[:0]
	for _, b := range businesses {
		if f.MinRating > 0 && (b.Rating == nil || *b.Rating < f.MinRating) {
			continue
		}
		if f.MinReviews > 0 && b.ReviewCount < f.MinReviews {
			continue
		}
		if f.MaxPriceTier > 0 && (b.PriceTier == nil || *b.PriceTier > f.MaxPriceTier) {
			continue
		}
		if f.OpenNow && (b.OpenNow == nil || !*b.OpenNow) {
			continue
		}
		if f.Category != "" && !strings.Contains(strings.ToLower(b.Category), strings.ToLower(f.Category)) {
			continue
		}
		if f.LeadsOnly && !IsLead(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// sortBusinesses orders results by the sort key, defaulting to distance.
// Sorting is stable, so equal keys keep merge discovery order.
func sortBusinesses(businesses []types.Business, key types.SortKey) {
	switch key {
	case types.SortByRating:
		sort.SliceStable(businesses, func(i, j int) bool {
			ri, rj := businesses[i].Rating, businesses[j].Rating
			if ri == nil {
				return false
			}
			if rj == nil {
				return true
			}
			return *ri > *rj
		})
	case types.SortByPrice:
		sort.SliceStable(businesses, func(i, j int) bool {
			pi, pj := businesses[i].PriceTier, businesses[j].PriceTier
			if pi == nil {
				return false
			}
			if pj == nil {
				return true
			}
			return *pi < *pj
		})
	case types.SortByName:
		sort.SliceStable(businesses, func(i, j int) bool {
			return strings.ToLower(businesses[i].Name) < strings.ToLower(businesses[j].Name)
		})
	default:
		sort.SliceStable(businesses, func(i, j int) bool {
			return businesses[i].DistanceMeters < businesses[j].DistanceMeters
		})
	}
}
