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

const nominatimUserAgent = "go-trip-planner/1.0"

// NominatimClient performs free-text geocoding against a Nominatim
// instance. Latitude and longitude arrive as strings on the wire and
// are normalized to float64 here, at the provider boundary.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewNominatimClient(baseURL string, timeout time.Duration, logger *slog.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

// Search runs a free-text query and returns up to limit candidates.
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(results))
	for _, res := range results {
		lat, latErr := strconv.ParseFloat(res.Lat, 64)
		lon, lonErr := strconv.ParseFloat(res.Lon, 64)
		if latErr != nil || lonErr != nil {
			c.logger.WarnContext(ctx, "Skipping nominatim result with unparsable coordinates",
				slog.String("lat", res.Lat), slog.String("lon", res.Lon))
			continue
		}
		name := res.Name
		if name == "" {
			// display_name is "Name, Suburb, City, ..."; the leading
			// segment is the closest thing to a bare place name.
			name = strings.SplitN(res.DisplayName, ",", 2)[0]
		}
		candidates = append(candidates, types.Candidate{
			ID:        fmt.Sprintf("nominatim/%d", res.PlaceID),
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Address:   res.DisplayName,
			Category:  res.Type,
		})
	}
	return candidates, nil
}
