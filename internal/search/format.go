// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/place-finder/pkg/types"
)

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results.Businesses) == 0 {
		fmt.Fprintln(w, "No results found.")
		reportFailures(out, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-35s  %-8s  %-6s  %-5s  %-5s  %-9s  %s\n",
		"Rank", "Name", "Distance", "Rating", "Price", "Open", "Reviews", "Sources")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, b := range out.Results.Businesses {
		name := b.Name
		// Truncate on runes so a multi-byte name never splits mid-character.
		if runes := []rune(name); len(runes) > 35 {
			name = string(runes[:32]) + "..."
		}
		fmt.Fprintf(w, "%-4d  %-35s  %-8s  %-6s  %-5s  %-5s  %-9d  %s\n",
			i+1, name,
			formatDistance(b.DistanceMeters),
			formatRating(b.Rating),
			formatPrice(b.PriceTier),
			formatOpen(b.OpenNow),
			b.ReviewCount,
			strings.Join(sourceNames(b), ","),
		)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results.Businesses))
	if out.Results.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates merged)", out.Results.DupsRemoved)
	}
	if out.CacheHit {
		fmt.Fprintf(w, " (cached)")
	}
	fmt.Fprintln(w)
	reportFailures(out, w)
}

func reportFailures(out Output, w io.Writer) {
	for _, f := range out.Failed {
		fmt.Fprintf(w, "warning: provider %s failed (%s)\n", f.Provider, f.Kind)
	}
}

// FormatJSON writes the full output (results plus failure metadata) as
// indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteCSV writes results as CSV rows to w, one business per line.
func WriteCSV(out Output, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "lat", "lng", "distance_m", "rating", "price_tier", "open_now", "reviews", "category", "address", "website", "lead", "sources"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, b := range out.Results.Businesses {
		row := []string{
			b.Name,
			strconv.FormatFloat(b.Coordinates.Lat, 'f', 6, 64),
			strconv.FormatFloat(b.Coordinates.Lng, 'f', 6, 64),
			strconv.FormatFloat(b.DistanceMeters, 'f', 0, 64),
			formatRating(b.Rating),
			formatPrice(b.PriceTier),
			formatOpen(b.OpenNow),
			strconv.Itoa(b.ReviewCount),
			b.Category,
			b.Address,
			b.Website,
			strconv.FormatBool(IsLead(b)),
			strings.Join(sourceNames(b), ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fm", meters)
}

func formatRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return strconv.FormatFloat(*r, 'f', 2, 64)
}

func formatPrice(p *int) string {
	if p == nil {
		return "-"
	}
	return strings.Repeat("$", *p)
}

func formatOpen(o *bool) string {
	if o == nil {
		return "?"
	}
	if *o {
		return "yes"
	}
	return "no"
}

func sourceNames(b types.Business) []string {
	names := make([]string, 0, len(b.SourceIDs))
	for name := range b.SourceIDs {
		names = append(names, name)
	}
	// Deterministic output for tables and CSV.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}
