// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/place-finder/internal/provider"
	"github.com/pdiddy/place-finder/pkg/types"
)

func TestQueryFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")

	query := types.Query{Text: "pizza", Lat: 40.7306, Lng: -73.9865, RadiusMeters: 3000}
	out := sampleOutput()
	out.Failed = []ProviderFailure{{Provider: "yelp", Kind: provider.KindTimeout, Message: "deadline exceeded"}}

	if err := WriteQueryFile(path, query, out); err != nil {
		t.Fatalf("WriteQueryFile() error = %v", err)
	}

	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile() error = %v", err)
	}

	if qf.Query.Text != "pizza" || qf.Query.Lat != 40.7306 {
		t.Errorf("Query = %+v", qf.Query)
	}
	if len(qf.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(qf.Results))
	}
	b := qf.Results[0]
	if b.Name != "Joe's Pizza" {
		t.Errorf("Name = %q", b.Name)
	}
	if b.Rating == nil || *b.Rating != 4.25 {
		t.Errorf("Rating = %v, want pointer fields to survive the roundtrip", b.Rating)
	}
	if b.SourceIDs["googleplaces"] != "g1" {
		t.Errorf("SourceIDs = %v", b.SourceIDs)
	}

	if qf.Summary.Total != 2 || qf.Summary.DuplicatesMerged != 1 || !qf.Summary.CacheHit {
		t.Errorf("Summary = %+v", qf.Summary)
	}
	if len(qf.Summary.FailedProviders) != 1 || qf.Summary.FailedProviders[0].Kind != provider.KindTimeout {
		t.Errorf("FailedProviders = %+v", qf.Summary.FailedProviders)
	}
	if qf.Summary.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("ReadQueryFile() on a missing file should fail")
	}
}
