// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/place-finder/internal/httputil"
	"github.com/pdiddy/place-finder/pkg/types"
)

// googlePlacesAPIBase is the Places API (New) endpoint. Declared as a var so
// tests can substitute an httptest server.
var googlePlacesAPIBase = "https://places.googleapis.com/v1"

// googleFieldMask lists the response fields requested from the Places API.
// The API bills per field, so only what the normalizer consumes is asked for.
const googleFieldMask = "places.id," +
	"places.displayName," +
	"places.formattedAddress," +
	"places.location," +
	"places.rating," +
	"places.userRatingCount," +
	"places.priceLevel," +
	"places.primaryType," +
	"places.websiteUri," +
	"places.currentOpeningHours.openNow," +
	"nextPageToken"

// pageTokenDelay is the wait before a nextPageToken becomes valid.
var pageTokenDelay = 2 * time.Second

// GooglePlacesAdapter queries the Google Places API (New) text search.
type GooglePlacesAdapter struct {
	name     string
	Client   *http.Client
	APIKey   string
	MaxPages int
}

// Name returns the provider identifier.
func (a *GooglePlacesAdapter) Name() string { return a.name }

// Search issues a text search biased to the query's location circle and
// follows nextPageToken up to MaxPages pages.
func (a *GooglePlacesAdapter) Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.RawListing, error) {
	maxPages := a.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var listings []types.RawListing
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		if page > 0 {
			select {
			case <-ctx.Done():
				return listings, wrapTransportError(a.name, ctx.Err())
			case <-time.After(pageTokenDelay):
			}
		}

		resp, err := a.searchPage(ctx, query, cfg, pageToken)
		if err != nil {
			return nil, err
		}

		for _, p := range resp.Places {
			listings = append(listings, googleListing(a.name, p))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return listings, nil
}

func (a *GooglePlacesAdapter) searchPage(ctx context.Context, query types.Query, cfg types.SearchConfig, pageToken string) (*googleSearchResponse, error) {
	body := googleSearchRequest{TextQuery: query.Text, PageToken: pageToken}
	body.LocationBias.Circle.Center.Latitude = query.Lat
	body.LocationBias.Circle.Center.Longitude = query.Lng
	body.LocationBias.Circle.Radius = query.RadiusMeters

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("encoding request: %w", err))
	}

	url := googlePlacesAPIBase + "/places:searchText"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("X-Goog-Api-Key", a.APIKey)
	req.Header.Set("X-Goog-FieldMask", googleFieldMask)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, wrapTransportError(a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.name, resp.StatusCode)
	}

	var sr googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("parsing response: %w", err))
	}
	return &sr, nil
}

// googleListing maps one Places API place into a raw listing. Google rates
// on the canonical 0-5 scale already; price arrives as a PRICE_LEVEL_* enum
// the normalizer translates.
func googleListing(provider string, p googlePlace) types.RawListing {
	r := types.RawListing{
		Provider:    provider,
		ProviderID:  p.ID,
		Name:        p.DisplayName.Text,
		Address:     p.FormattedAddress,
		Category:    p.PrimaryType,
		Website:     p.WebsiteURI,
		PriceRaw:    p.PriceLevel,
		ReviewCount: p.UserRatingCount,
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		r.Lat, r.Lng = &lat, &lng
	}
	if p.Rating > 0 {
		r.Rating = p.Rating
		r.RatingScale = 5
	}
	if p.CurrentOpeningHours != nil {
		open := p.CurrentOpeningHours.OpenNow
		r.OpenNow = &open
	}
	return r
}

// Places API (New) wire structures.
type googleSearchRequest struct {
	TextQuery    string `json:"textQuery"`
	PageToken    string `json:"pageToken,omitempty"`
	LocationBias struct {
		Circle struct {
			Center struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationBias"`
}

type googleSearchResponse struct {
	Places        []googlePlace `json:"places"`
	NextPageToken string        `json:"nextPageToken"`
}

type googlePlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating              float64 `json:"rating"`
	UserRatingCount     int     `json:"userRatingCount"`
	PriceLevel          string  `json:"priceLevel"`
	PrimaryType         string  `json:"primaryType"`
	WebsiteURI          string  `json:"websiteUri"`
	CurrentOpeningHours *struct {
		OpenNow bool `json:"openNow"`
	} `json:"currentOpeningHours"`
}
