package geolookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fsqPlaceJSON = `{
	"fsq_id": "4b9511f2f964a520b09f35e3",
	"name": "Fontana di Trevi",
	"categories": [{"name": "Fountain"}],
	"geocodes": {"main": {"latitude": 41.9009, "longitude": 12.4833}},
	"location": {"formatted_address": "Piazza di Trevi, 00187 Roma"}
}`

func TestFoursquareSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/search", r.URL.Path)
		assert.Equal(t, "trevi", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		w.Write([]byte(`{"results": [` + fsqPlaceJSON + `]}`))
	}))
	defer srv.Close()

	client := NewFoursquareClient(srv.URL, "test-key", 5*time.Second, testLogger())
	candidates, err := client.Search(context.Background(), "trevi", 41.89, 12.48, 5)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "4b9511f2f964a520b09f35e3", candidates[0].ID)
	assert.Equal(t, "Fontana di Trevi", candidates[0].Name)
	assert.InDelta(t, 41.9009, candidates[0].Latitude, 1e-9)
	assert.Equal(t, "Fountain", candidates[0].Category)
	assert.Equal(t, "Piazza di Trevi, 00187 Roma", candidates[0].Address)
}

func TestFoursquareNearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/search", r.URL.Path)
		assert.Equal(t, "3000", r.URL.Query().Get("radius"))
		w.Write([]byte(`{"results": [` + fsqPlaceJSON + `]}`))
	}))
	defer srv.Close()

	client := NewFoursquareClient(srv.URL, "test-key", 5*time.Second, testLogger())
	candidates, err := client.Nearby(context.Background(), 41.89, 12.48, 3000, 30)

	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestFoursquareDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/4b9511f2f964a520b09f35e3", r.URL.Path)
		w.Write([]byte(fsqPlaceJSON))
	}))
	defer srv.Close()

	client := NewFoursquareClient(srv.URL, "test-key", 5*time.Second, testLogger())
	candidate, err := client.Details(context.Background(), "4b9511f2f964a520b09f35e3")

	require.NoError(t, err)
	assert.Equal(t, "Fontana di Trevi", candidate.Name)
}

func TestFoursquareDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewFoursquareClient(srv.URL, "test-key", 5*time.Second, testLogger())
	_, err := client.Details(context.Background(), "unknown-id")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFoursquareSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewFoursquareClient(srv.URL, "bad-key", 5*time.Second, testLogger())
	_, err := client.Search(context.Background(), "x", 0, 0, 1)

	assert.Error(t, err)
}
