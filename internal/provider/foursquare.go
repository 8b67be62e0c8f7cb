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

// foursquareAPIBase is the Foursquare place search endpoint. Declared as a
// var so tests can substitute an httptest server.
var foursquareAPIBase = "https://api.foursquare.com/v3/places/search"

const foursquareFields = "fsq_id,name,geocodes,location,categories,rating,price,website,hours,stats"

// FoursquareAdapter queries the Foursquare Places API.
type FoursquareAdapter struct {
	name   string
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (a *FoursquareAdapter) Name() string { return a.name }

// Search queries Foursquare place search with an ll/radius circle.
func (a *FoursquareAdapter) Search(ctx context.Context, query types.Query, cfg types.SearchConfig) ([]types.RawListing, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	// Foursquare caps limit at 50.
	if maxResults > 50 {
		maxResults = 50
	}

	params := url.Values{
		"query":  {query.Text},
		"ll":     {fmt.Sprintf("%f,%f", query.Lat, query.Lng)},
		"radius": {fmt.Sprintf("%d", int(query.RadiusMeters))},
		"limit":  {fmt.Sprintf("%d", maxResults)},
		"fields": {foursquareFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, foursquareAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Authorization", a.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, wrapTransportError(a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(a.name, resp.StatusCode)
	}

	var sr foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, NewError(a.name, KindMalformed, fmt.Errorf("parsing response: %w", err))
	}

	listings := make([]types.RawListing, 0, len(sr.Results))
	for _, p := range sr.Results {
		listings = append(listings, foursquareListing(a.name, p))
	}
	return listings, nil
}

// foursquareListing maps one Foursquare place into a raw listing. Foursquare
// rates on a 0-10 scale and prices on 1-4 already.
func foursquareListing(provider string, p foursquarePlace) types.RawListing {
	r := types.RawListing{
		Provider:    provider,
		ProviderID:  p.FsqID,
		Name:        p.Name,
		Address:     p.Location.FormattedAddress,
		Website:     p.Website,
		ReviewCount: p.Stats.TotalRatings,
	}
	if len(p.Categories) > 0 {
		r.Category = p.Categories[0].Name
	}
	if p.Geocodes.Main != nil {
		lat, lng := p.Geocodes.Main.Latitude, p.Geocodes.Main.Longitude
		r.Lat, r.Lng = &lat, &lng
	}
	if p.Rating > 0 {
		r.Rating = p.Rating
		r.RatingScale = 10
	}
	if p.Price > 0 {
		r.PriceRaw = fmt.Sprintf("%d", p.Price)
	}
	if p.Hours != nil {
		open := p.Hours.OpenNow
		r.OpenNow = &open
	}
	return r
}

// Foursquare wire structures.
type foursquareResponse struct {
	Results []foursquarePlace `json:"results"`
}

type foursquarePlace struct {
	FsqID    string `json:"fsq_id"`
	Name     string `json:"name"`
	Geocodes struct {
		Main *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"location"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Rating  float64 `json:"rating"`
	Price   int     `json:"price"`
	Website string  `json:"website"`
	Hours   *struct {
		OpenNow bool `json:"open_now"`
	} `json:"hours"`
	Stats struct {
		TotalRatings int `json:"total_ratings"`
	} `json:"stats"`
}
