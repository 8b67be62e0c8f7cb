// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapFoursquareBase(t *testing.T, url string) {
	t.Helper()
	old := foursquareAPIBase
	foursquareAPIBase = url
	t.Cleanup(func() { foursquareAPIBase = old })
}

const foursquareBody = `{
	"results": [
		{
			"fsq_id": "fsq-1",
			"name": "Joes Pizza",
			"geocodes": {"main": {"latitude": 40.73059, "longitude": -73.98652}},
			"location": {"formatted_address": "7 Carmine St, New York, NY 10014"},
			"categories": [{"name": "Pizzeria"}],
			"rating": 9.1,
			"price": 1,
			"website": "https://joespizzanyc.com",
			"hours": {"open_now": true},
			"stats": {"total_ratings": 800}
		}
	]
}`

func TestFoursquareSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "fsq-key", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "pizza", q.Get("query"))
		assert.Equal(t, "3000", q.Get("radius"))
		assert.NotEmpty(t, q.Get("ll"))
		assert.NotEmpty(t, q.Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(foursquareBody))
	}))
	defer srv.Close()
	swapFoursquareBase(t, srv.URL)

	a := &FoursquareAdapter{name: "foursquare", Client: srv.Client(), APIKey: "fsq-key"}
	listings, err := a.Search(context.Background(), testQuery(), testSearchConfig())
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "foursquare", l.Provider)
	assert.Equal(t, "fsq-1", l.ProviderID)
	assert.Equal(t, "Joes Pizza", l.Name)
	assert.Equal(t, "Pizzeria", l.Category)
	require.NotNil(t, l.Lat)
	assert.Equal(t, 40.73059, *l.Lat)
	assert.Equal(t, 9.1, l.Rating)
	assert.Equal(t, 10.0, l.RatingScale, "Foursquare declares its native ten point scale")
	assert.Equal(t, "1", l.PriceRaw)
	assert.Equal(t, 800, l.ReviewCount)
	require.NotNil(t, l.OpenNow)
	assert.True(t, *l.OpenNow)
}

func TestFoursquareLimitCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()
	swapFoursquareBase(t, srv.URL)

	cfg := testSearchConfig()
	cfg.MaxResults = 200

	a := &FoursquareAdapter{name: "foursquare", Client: srv.Client(), APIKey: "k"}
	listings, err := a.Search(context.Background(), testQuery(), cfg)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFoursquareAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	swapFoursquareBase(t, srv.URL)

	a := &FoursquareAdapter{name: "foursquare", Client: srv.Client(), APIKey: "bad"}
	_, err := a.Search(context.Background(), testQuery(), testSearchConfig())
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "foursquare", pe.Provider)
}
