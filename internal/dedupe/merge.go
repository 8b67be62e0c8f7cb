// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/place-finder/pkg/types"
)

// compose folds a duplicate cluster into a single business. The first record
// (discovery order) is the primary and keeps the output position; fields are
// composed per policy:
//
//	name/address/category/website: authoritative source wins, else the
//	  longest (name) or first non-empty (rest);
//	rating and price tier: arithmetic mean of reporting sources, rounded
//	  to the nearest valid increment;
//	open-now: majority vote, ties stay unknown;
//	source ids: union of all contributors.
//
// Provenance records the contributing source for every field the sources
// did not unanimously agree on.
func (m *Merger) compose(cluster []types.Business) types.Business {
	if len(cluster) == 1 {
		return cluster[0]
	}

	out := cluster[0].Clone()
	out.Provenance = map[string]string{}

	for _, b := range cluster[1:] {
		for prov, id := range b.SourceIDs {
			if _, ok := out.SourceIDs[prov]; !ok {
				out.SourceIDs[prov] = id
			}
		}
	}

	out.Name = m.chooseString(cluster, "name",
		func(b types.Business) string { return b.Name }, longerWins, out.Provenance)
	out.Address = m.chooseString(cluster, "address",
		func(b types.Business) string { return b.Address }, firstWins, out.Provenance)
	out.Category = m.chooseString(cluster, "category",
		func(b types.Business) string { return b.Category }, firstWins, out.Provenance)
	out.Website = m.chooseString(cluster, "website",
		func(b types.Business) string { return b.Website }, firstWins, out.Provenance)

	out.Rating = meanRating(cluster, out.Provenance)
	out.PriceTier = meanPriceTier(cluster, out.Provenance)
	out.OpenNow = voteOpenNow(cluster, out.Provenance)

	for _, b := range cluster {
		if b.ReviewCount > out.ReviewCount {
			out.ReviewCount = b.ReviewCount
		}
	}

	return out
}

// providerOf returns the provider a pre-merge record came from. Normalized
// records carry exactly one source id.
func providerOf(b types.Business) string {
	for prov := range b.SourceIDs {
		return prov
	}
	return ""
}

// tiebreak decides between a held value and a challenger when neither
// source is authoritative.
type tiebreak func(held, challenger string) bool

func longerWins(held, challenger string) bool { return len(challenger) > len(held) }
func firstWins(string, string) bool           { return false }

// chooseString picks a string field across the cluster: an authoritative
// source wins outright, otherwise the tiebreak runs in discovery order.
// Non-unanimous outcomes are recorded in provenance.
func (m *Merger) chooseString(cluster []types.Business, field string, get func(types.Business) string, prefer tiebreak, provenance map[string]string) string {
	value, source := "", ""
	authoritative := false
	unanimous := true

	for _, b := range cluster {
		v := get(b)
		if v == "" {
			continue
		}
		if value == "" {
			value, source = v, providerOf(b)
			authoritative = m.authoritative[providerOf(b)]
			continue
		}
		if v != value {
			unanimous = false
		}
		if authoritative {
			continue
		}
		if m.authoritative[providerOf(b)] || prefer(value, v) {
			value, source = v, providerOf(b)
			authoritative = m.authoritative[providerOf(b)]
		}
	}

	if value != "" && !unanimous {
		provenance[field] = source
	}
	return value
}

// meanRating averages the ratings of reporting sources, rounded to 0.01.
func meanRating(cluster []types.Business, provenance map[string]string) *float64 {
	var sum float64
	var sources []string
	unanimous := true
	var first *float64

	for _, b := range cluster {
		if b.Rating == nil {
			continue
		}
		if first == nil {
			first = b.Rating
		} else if *b.Rating != *first {
			unanimous = false
		}
		sum += *b.Rating
		sources = append(sources, providerOf(b))
	}
	if len(sources) == 0 {
		return nil
	}

	mean := math.Round(sum/float64(len(sources))*100) / 100
	if !unanimous {
		provenance["rating"] = joinSources(sources)
	}
	return &mean
}

// meanPriceTier averages the price tiers of reporting sources, rounded to
// the nearest whole tier.
func meanPriceTier(cluster []types.Business, provenance map[string]string) *int {
	sum := 0
	var sources []string
	unanimous := true
	var first *int

	for _, b := range cluster {
		if b.PriceTier == nil {
			continue
		}
		if first == nil {
			first = b.PriceTier
		} else if *b.PriceTier != *first {
			unanimous = false
		}
		sum += *b.PriceTier
		sources = append(sources, providerOf(b))
	}
	if len(sources) == 0 {
		return nil
	}

	mean := int(math.Round(float64(sum) / float64(len(sources))))
	if !unanimous {
		provenance["price_tier"] = joinSources(sources)
	}
	return &mean
}

// voteOpenNow majority-votes the open state among reporting sources. A tie
// resolves to unknown, never a guess.
func voteOpenNow(cluster []types.Business, provenance map[string]string) *bool {
	open, closed := 0, 0
	var sources []string

	for _, b := range cluster {
		if b.OpenNow == nil {
			continue
		}
		if *b.OpenNow {
			open++
		} else {
			closed++
		}
		sources = append(sources, providerOf(b))
	}

	if open == closed {
		return nil
	}
	result := open > closed
	if open > 0 && closed > 0 {
		provenance["open_now"] = joinSources(sources)
	}
	return &result
}

// joinSources renders a deterministic comma-joined provider list.
func joinSources(sources []string) string {
	sort.Strings(sources)
	return strings.Join(sources, ",")
}
