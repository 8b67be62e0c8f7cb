// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/place-finder/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. A
// search can be saved to a file and reloaded later without re-querying
// providers.
type QueryFile struct {
	Query   types.Query      `yaml:"query"`
	Results []types.Business `yaml:"results"`
	Summary QuerySummary     `yaml:"summary"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total            int               `yaml:"total"`
	DuplicatesMerged int               `yaml:"duplicates_merged"`
	CacheHit         bool              `yaml:"cache_hit"`
	FailedProviders  []ProviderFailure `yaml:"failed_providers,omitempty"`
	Timestamp        time.Time         `yaml:"timestamp"`
}

// WriteQueryFile saves a query and its results to a YAML file.
func WriteQueryFile(path string, query types.Query, out Output) error {
	qf := QueryFile{
		Query:   query,
		Results: out.Results.Businesses,
		Summary: QuerySummary{
			Total:            len(out.Results.Businesses),
			DuplicatesMerged: out.Results.DupsRemoved,
			CacheHit:         out.CacheHit,
			FailedProviders:  out.Failed,
			Timestamp:        time.Now(),
		},
	}

	data, err := yaml.Marshal(qf)
	if err != nil {
		return fmt.Errorf("encoding query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing query file %s: %w", path, err)
	}
	return nil
}

// ReadQueryFile loads a previously saved search.
func ReadQueryFile(path string) (QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QueryFile{}, fmt.Errorf("reading query file %s: %w", path, err)
	}

	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return QueryFile{}, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	return qf, nil
}
