// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the place-finder CLI.
// See docs/ARCHITECTURE.md § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/place-finder/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide structured logger, configured in the root
// command's pre-run.
var logger zerolog.Logger

// secretDefault returns the secret value for key if it exists, or fallback
// otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the place-finder CLI.
var rootCmd = &cobra.Command{
	Use:   "place-finder",
	Short: "Find and merge local business listings across place-search providers",
	Long: `place-finder queries multiple place-search providers (Google Places,
Foursquare, Yelp), normalizes their listings into one canonical shape,
merges duplicates with per-field provenance, and caches merged result sets.

Results can be filtered (rating, price, open-now, leads) and sorted after
merging, and exported as a table, JSON, or CSV.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		level := zerolog.InfoLevel
		if debug {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()

		if err := secrets.LoadDotenv(".env"); err != nil {
			return err
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./place-finder.yaml or ~/.config/place-finder/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("place-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "place-finder"))
		}
	}

	viper.SetEnvPrefix("PLACE_FINDER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
