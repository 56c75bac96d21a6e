package geolookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// FoursquareClient wraps the Foursquare Places v3 API: text search,
// nearby search and detail lookup by fsq_id.
type FoursquareClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewFoursquareClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *FoursquareClient {
	return &FoursquareClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type fsqPlace struct {
	FsqID      string `json:"fsq_id"`
	Name       string `json:"name"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Geocodes struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"location"`
}

type fsqSearchResponse struct {
	Results []fsqPlace `json:"results"`
}

func (p fsqPlace) toCandidate() types.Candidate {
	category := ""
	if len(p.Categories) > 0 {
		category = p.Categories[0].Name
	}
	return types.Candidate{
		ID:        p.FsqID,
		Name:      p.Name,
		Latitude:  p.Geocodes.Main.Latitude,
		Longitude: p.Geocodes.Main.Longitude,
		Address:   p.Location.FormattedAddress,
		Category:  category,
	}
}

func (c *FoursquareClient) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build foursquare request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("foursquare request failed: %w", err)
	}
	return resp, nil
}

// Search runs a text search near the given coordinates.
func (c *FoursquareClient) Search(ctx context.Context, query string, lat, lon float64, limit int) ([]types.Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("ll", fmt.Sprintf("%.6f,%.6f", lat, lon))
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/places/search", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foursquare returned status %d", resp.StatusCode)
	}
	return c.decodeResults(ctx, resp)
}

// Nearby returns places within radius meters of the coordinates.
func (c *FoursquareClient) Nearby(ctx context.Context, lat, lon float64, radius, limit int) ([]types.Candidate, error) {
	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%.6f,%.6f", lat, lon))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/places/search", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foursquare returned status %d", resp.StatusCode)
	}
	return c.decodeResults(ctx, resp)
}

// Details looks up a single place by its fsq_id. Returns ErrNotFound
// for unknown ids.
func (c *FoursquareClient) Details(ctx context.Context, fsqID string) (*types.Candidate, error) {
	resp, err := c.get(ctx, "/places/"+url.PathEscape(fsqID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foursquare returned status %d", resp.StatusCode)
	}

	var place fsqPlace
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return nil, fmt.Errorf("failed to decode foursquare place: %w", err)
	}
	candidate := place.toCandidate()
	return &candidate, nil
}

func (c *FoursquareClient) decodeResults(ctx context.Context, resp *http.Response) ([]types.Candidate, error) {
	var parsed fsqSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode foursquare response: %w", err)
	}
	candidates := make([]types.Candidate, 0, len(parsed.Results))
	for _, p := range parsed.Results {
		candidates = append(candidates, p.toCandidate())
	}
	c.logger.DebugContext(ctx, "Foursquare search completed", slog.Int("candidates", len(candidates)))
	return candidates, nil
}
