// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/place-finder/internal/provider"
	"github.com/pdiddy/place-finder/pkg/types"
)

func sampleOutput() Output {
	return Output{
		Results: types.MergedResultSet{
			Businesses: []types.Business{
				{
					Name:           "Joe's Pizza",
					Coordinates:    types.Coordinates{Lat: 40.7306, Lng: -73.9865},
					DistanceMeters: 42,
					Rating:         fptr(4.25),
					PriceTier:      iptr(1),
					OpenNow:        bptr(true),
					ReviewCount:    1200,
					Category:       "Pizza",
					Address:        "7 Carmine St",
					Website:        "https://joespizzanyc.com",
					SourceIDs:      map[string]string{"yelp": "y1", "googleplaces": "g1"},
				},
				{
					Name:           "Corner Deli",
					Coordinates:    types.Coordinates{Lat: 40.7310, Lng: -73.9870},
					DistanceMeters: 1500,
					SourceIDs:      map[string]string{"foursquare": "f1"},
				},
			},
			DupsRemoved: 1,
		},
		CacheHit: true,
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleOutput(), &buf)
	got := buf.String()

	for _, want := range []string{
		"Joe's Pizza",
		"42m",
		"1.5km",
		"4.25",
		"googleplaces,yelp",
		"(1 duplicates merged)",
		"(cached)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatTableTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("aé", 20)
	out := sampleOutput()
	out.Results.Businesses[0].Name = long

	var buf bytes.Buffer
	FormatTable(out, &buf)
	got := buf.String()

	if !utf8.ValidString(got) {
		t.Fatalf("table output is not valid UTF-8:\n%s", got)
	}
	want := strings.Repeat("aé", 16) + "..."
	if !strings.Contains(got, want) {
		t.Errorf("table output missing truncated name %q:\n%s", want, got)
	}
	if strings.Contains(got, long) {
		t.Error("long name was not truncated")
	}
}

func TestFormatTableEmptyAndFailures(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{
		Failed: []ProviderFailure{{Provider: "yelp", Kind: provider.KindAuth, Message: "HTTP 401"}},
	}, &buf)
	got := buf.String()

	if !strings.Contains(got, "No results found.") {
		t.Errorf("missing empty-result line:\n%s", got)
	}
	if !strings.Contains(got, "warning: provider yelp failed (auth)") {
		t.Errorf("missing failure warning:\n%s", got)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(sampleOutput(), &buf); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var decoded Output
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.CacheHit || len(decoded.Results.Businesses) != 2 {
		t.Errorf("decoded output lost data: %+v", decoded)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(sampleOutput(), &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header plus 2 businesses", len(records))
	}
	if records[0][0] != "name" {
		t.Errorf("header = %v", records[0])
	}

	joes := records[1]
	if joes[0] != "Joe's Pizza" {
		t.Errorf("row name = %q", joes[0])
	}
	// Joe's has a real website; the deli has none and is a lead.
	if joes[11] != "false" {
		t.Errorf("Joe's lead column = %q, want false", joes[11])
	}
	if records[2][11] != "true" {
		t.Errorf("deli lead column = %q, want true", records[2][11])
	}
	if joes[12] != "googleplaces;yelp" {
		t.Errorf("sources column = %q", joes[12])
	}
}
