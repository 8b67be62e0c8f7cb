// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/place-finder/internal/cache"
	"github.com/pdiddy/place-finder/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache (invalidate, flush)",
	Long: `Cache manages stored search results. Invalidate removes the entry for
one query regardless of TTL; flush removes every entry.`,
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Remove the cached entry for a query",
	RunE:  runCacheInvalidate,
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Remove every cached entry",
	RunE:  runCacheFlush,
}

func init() {
	cacheInvalidateCmd.Flags().String("query", "", "search term of the cached query")
	cacheInvalidateCmd.Flags().Float64("lat", 0, "latitude of the cached query")
	cacheInvalidateCmd.Flags().Float64("lng", 0, "longitude of the cached query")
	cacheInvalidateCmd.Flags().Float64("radius", 3000, "radius of the cached query in meters")

	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (*cache.Cache, types.AppConfig, func(), error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, types.AppConfig{}, nil, err
	}
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, types.AppConfig{}, nil, err
	}
	c := cache.New(store, cfg.Cache.TTL, logger)
	return c, cfg, func() { c.Close() }, nil
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	c, cfg, cleanup, err := openCache()
	if err != nil {
		return err
	}
	defer cleanup()

	query := queryFromFlags(cmd)
	fingerprint := cache.Fingerprint(query, cfg.Cache.GridPrecision)
	if err := c.Invalidate(context.Background(), fingerprint); err != nil {
		return err
	}
	logger.Info().Str("fingerprint", fingerprint).Msg("invalidated cache entry")
	return nil
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	c, _, cleanup, err := openCache()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := c.Flush(context.Background()); err != nil {
		return err
	}
	logger.Info().Msg("flushed cache")
	return nil
}
