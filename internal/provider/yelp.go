// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/place-finder/internal/httputil"
	"github.com/pdiddy/place-finder/pkg/types"
)

// yelpAPIBase is the Yelp Fusion business search endpoint. Declared as a var
// so tests can substitute an httptest server.
var yelpAPIBase = "https://api.yelp.com/v3/businesses/search"

// YelpAdapter queries the Yelp Fusion API.
type YelpAdapter struct {
	name   string
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (a *YelpAdapter) Name() string { return a.name }

// Search queries Yelp business search around the query's center.
func (a *YelpAdapter) Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.RawListing, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	// Yelp caps limit at 50 and radius at 40000 m.
	if maxResults > 50 {
		maxResults = 50
	}
	radius := int(query.RadiusMeters)
	if radius > 40000 {
		radius = 40000
	}

	params := url.Values{
		"term":      {query.Text},
		"latitude":  {fmt.Sprintf("%f", query.Lat)},
		"longitude": {fmt.Sprintf("%f", query.Lng)},
		"radius":    {fmt.Sprintf("%d", radius)},
		"limit":     {fmt.Sprintf("%d", maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, yelpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, wrapTransportError(a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.name, resp.StatusCode)
	}

	var sr yelpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("parsing response: %w", err))
	}

	listings := make([]types.RawListing, 0, len(sr.Businesses))
	for _, b := range sr.Businesses {
		listings = append(listings, yelpListing(a.name, b))
	}
	return listings, nil
}

// yelpListing maps one Yelp business into a raw listing. Yelp rates 0-5 and
// prices with "$".."$$$$" strings; is_closed reflects permanent closure, not
// open-now, so open state stays unknown.
func yelpListing(provider string, b yelpBusiness) types.RawListing {
	r := types.RawListing{
		Provider:    provider,
		ProviderID:  b.ID,
		Name:        b.Name,
		Website:     b.URL,
		PriceRaw:    b.Price,
		ReviewCount: b.ReviewCount,
	}
	if len(b.Location.DisplayAddress) > 0 {
		r.Address = b.Location.DisplayAddress[0]
		for _, line := range b.Location.DisplayAddress[1:] {
			r.Address += ", " + line
		}
	}
	if len(b.Categories) > 0 {
		r.Category = b.Categories[0].Title
	}
	if b.Coordinates != nil {
		lat, lng := b.Coordinates.Latitude, b.Coordinates.Longitude
		r.Lat, r.Lng = &lat, &lng
	}
	if b.Rating > 0 {
		r.Rating = b.Rating
		r.RatingScale = 5
	}
	return r
}

// Yelp Fusion wire structures.
type yelpResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpBusiness struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Coordinates *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
	Rating      float64 `json:"rating"`
	Price       string  `json:"price"`
	ReviewCount int     `json:"review_count"`
}
