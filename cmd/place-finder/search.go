// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/place-finder/internal/search"
	"github.com/pdiddy/place-finder/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search place providers for businesses around a location",
	Long: `Search queries the configured place providers for businesses matching a
term near a coordinate. Results are normalized, deduplicated across
providers, filtered and sorted after merging, and cached by query
fingerprint.

Coordinates are required; free-text addresses are not geocoded.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search term (e.g. 'barbers')")
	searchCmd.Flags().Float64("lat", 0, "latitude of the search center")
	searchCmd.Flags().Float64("lng", 0, "longitude of the search center")
	searchCmd.Flags().Float64("radius", 3000, "search radius in meters")
	searchCmd.Flags().Float64("min-rating", 0, "minimum rating (0-5)")
	searchCmd.Flags().Int("min-reviews", 0, "minimum review count")
	searchCmd.Flags().Int("max-price", 0, "maximum price tier (1-4)")
	searchCmd.Flags().Bool("open-now", false, "only businesses known to be open")
	searchCmd.Flags().String("category", "", "filter by category substring")
	searchCmd.Flags().Bool("leads-only", false, "only businesses with no (or low-effort) website")
	searchCmd.Flags().String("sort", "distance", "sort order: distance, rating, price, name")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("csv", "", "write results as CSV to this file")
	searchCmd.Flags().String("save", "", "save query and results to this YAML file")
	searchCmd.Flags().String("load", "", "print a previously saved search instead of querying")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("load"); path != "" {
		return printSavedSearch(cmd, path)
	}

	query := queryFromFlags(cmd)

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := engine.Search(context.Background(), query)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, query, out); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("saved search")
	}
	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		if err := search.WriteCSV(out, f); err != nil {
			return err
		}
		logger.Info().Str("path", path).Int("rows", len(out.Results.Businesses)).Msg("wrote CSV")
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

// queryFromFlags assembles the canonical query from command flags.
func queryFromFlags(cmd *cobra.Command) types.Query {
	text, _ := cmd.Flags().GetString("query")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	radius, _ := cmd.Flags().GetFloat64("radius")
	minRating, _ := cmd.Flags().GetFloat64("min-rating")
	minReviews, _ := cmd.Flags().GetInt("min-reviews")
	maxPrice, _ := cmd.Flags().GetInt("max-price")
	openNow, _ := cmd.Flags().GetBool("open-now")
	category, _ := cmd.Flags().GetString("category")
	leadsOnly, _ := cmd.Flags().GetBool("leads-only")
	sortKey, _ := cmd.Flags().GetString("sort")

	return types.Query{
		Text:         text,
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radius,
		Filters: types.FilterSpec{
			MinRating:    minRating,
			MinReviews:   minReviews,
			MaxPriceTier: maxPrice,
			OpenNow:      openNow,
			Category:     category,
			LeadsOnly:    leadsOnly,
			Sort:         types.SortKey(sortKey),
		},
	}
}

func printSavedSearch(cmd *cobra.Command, path string) error {
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return err
	}

	out := search.Output{
		Results: types.MergedResultSet{
			Businesses:  qf.Results,
			DupsRemoved: qf.Summary.DuplicatesMerged,
		},
		CacheHit: true,
		Failed:   qf.Summary.FailedProviders,
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}
