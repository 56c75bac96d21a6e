package geolookup

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNominatimSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Rome", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"place_id": 123, "lat": "41.8933203", "lon": "12.4829321", "name": "Roma",
			 "display_name": "Roma, Lazio, Italia", "class": "boundary", "type": "administrative"}
		]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, 5*time.Second, testLogger())
	candidates, err := client.Search(context.Background(), "Rome", 1)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "nominatim/123", candidates[0].ID)
	assert.Equal(t, "Roma", candidates[0].Name)
	assert.InDelta(t, 41.8933203, candidates[0].Latitude, 1e-9)
	assert.InDelta(t, 12.4829321, candidates[0].Longitude, 1e-9)
	assert.Equal(t, "Roma, Lazio, Italia", candidates[0].Address)
	assert.Equal(t, "administrative", candidates[0].Category)
}

func TestNominatimSearchNameFallsBackToDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"place_id": 1, "lat": "41.9", "lon": "12.5", "name": "",
			"display_name": "Fontana di Trevi, Rione II Trevi, Roma"}]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, 5*time.Second, testLogger())
	candidates, err := client.Search(context.Background(), "trevi", 1)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Fontana di Trevi", candidates[0].Name)
}

func TestNominatimSearchSkipsUnparsableCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"place_id": 1, "lat": "not-a-number", "lon": "12.5", "name": "Broken"},
			{"place_id": 2, "lat": "41.9", "lon": "12.5", "name": "Fine"}
		]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, 5*time.Second, testLogger())
	candidates, err := client.Search(context.Background(), "x", 10)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Fine", candidates[0].Name)
}

func TestNominatimSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, 5*time.Second, testLogger())
	_, err := client.Search(context.Background(), "x", 1)

	assert.Error(t, err)
}

func TestNominatimSearchMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, 5*time.Second, testLogger())
	_, err := client.Search(context.Background(), "x", 1)

	assert.Error(t, err)
}
