package geolookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// overpassCategoryTags is the fixed category -> OSM tag filter table.
// Categories missing here fall through to the Foursquare provider.
var overpassCategoryTags = map[string]string{
	"museum":     `["tourism"="museum"]`,
	"attraction": `["tourism"="attraction"]`,
	"viewpoint":  `["tourism"="viewpoint"]`,
	"hotel":      `["tourism"="hotel"]`,
	"restaurant": `["amenity"="restaurant"]`,
	"cafe":       `["amenity"="cafe"]`,
	"bar":        `["amenity"="bar"]`,
	"park":       `["leisure"="park"]`,
	"monument":   `["historic"="monument"]`,
	"castle":     `["historic"="castle"]`,
	"church":     `["amenity"="place_of_worship"]`,
}

// OverpassClient runs tag-filtered nearby searches against the
// Overpass API using generated Overpass QL.
type OverpassClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOverpassClient(endpoint string, timeout time.Duration, logger *slog.Logger) *OverpassClient {
	return &OverpassClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SupportsCategory reports whether the tag table covers the category.
func SupportsCategory(category string) bool {
	_, ok := overpassCategoryTags[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

type overpassResponse struct {
	Elements []struct {
		Type   string            `json:"type"`
		ID     int64             `json:"id"`
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Nearby returns named OSM elements of the given category within
// radius meters of the coordinates. Unnamed elements are dropped; they
// are useless as reconciliation candidates.
func (c *OverpassClient) Nearby(ctx context.Context, lat, lon float64, radius int, category string) ([]types.Candidate, error) {
	tagFilter, ok := overpassCategoryTags[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, fmt.Errorf("no overpass tag mapping for category %q", category)
	}

	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node%[1]s(around:%[2]d,%.6[3]f,%.6[4]f);
  way%[1]s(around:%[2]d,%.6[3]f,%.6[4]f);
);
out center 30;`, tagFilter, radius, lat, lon)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		elLat, elLon := el.Lat, el.Lon
		if el.Center != nil {
			// Ways carry their coordinates on the computed center.
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		candidates = append(candidates, types.Candidate{
			ID:        fmt.Sprintf("%s/%d", el.Type, el.ID),
			Name:      name,
			Latitude:  elLat,
			Longitude: elLon,
			Category:  category,
		})
	}
	c.logger.DebugContext(ctx, "Overpass nearby search completed",
		slog.String("category", category), slog.Int("candidates", len(candidates)))
	return candidates, nil
}
