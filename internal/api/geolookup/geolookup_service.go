package geolookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/cache"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var (
	// ErrNotFound is returned for detail lookups of unknown ids.
	ErrNotFound = errors.New("place not found")
	// ErrNoResults is returned when a destination query matches nothing.
	ErrNoResults = errors.New("no results for query")
)

const (
	autocompleteLimit = 10
	nearbyLimit       = 30
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the GeoLookup collaborator: free-text and nearby search
// over the geodata providers, memoized through the ResultCache.
type Service interface {
	SearchDestination(ctx context.Context, query string) (*types.Candidate, error)
	Autocomplete(ctx context.Context, query string) ([]types.Candidate, error)
	Nearby(ctx context.Context, lat, lon float64, radius int, category string) ([]types.Candidate, error)
	SearchPlace(ctx context.Context, query string, lat, lon float64) ([]types.Candidate, error)
	PlaceDetails(ctx context.Context, id string) (*types.Candidate, error)
}

// ServiceImpl composes the Nominatim, Overpass and Foursquare clients.
type ServiceImpl struct {
	logger        *slog.Logger
	nominatim     *NominatimClient
	overpass      *OverpassClient
	foursquare    *FoursquareClient
	cache         cache.ResultCache
	validationTTL time.Duration
	resolveTTL    time.Duration
}

func NewService(nominatim *NominatimClient, overpass *OverpassClient, foursquare *FoursquareClient,
	resultCache cache.ResultCache, validationTTL, resolveTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		nominatim:     nominatim,
		overpass:      overpass,
		foursquare:    foursquare,
		cache:         resultCache,
		validationTTL: validationTTL,
		resolveTTL:    resolveTTL,
	}
}

// SearchDestination geocodes a destination query to its best candidate.
func (s *ServiceImpl) SearchDestination(ctx context.Context, query string) (*types.Candidate, error) {
	ctx, span := otel.Tracer("GeoLookupService").Start(ctx, "SearchDestination")
	defer span.End()

	cacheKey := cache.QueryKey("dest", query)
	span.SetAttributes(attribute.String("cache.key", cacheKey))
	if cached, found := s.cache.Get(cacheKey); found && len(cached) > 0 {
		s.logger.DebugContext(ctx, "Cache hit for destination lookup", slog.String("cache_key", cacheKey))
		return &cached[0], nil
	}

	metrics.Get().GeoLookupRequestsTotal.Add(ctx, 1)
	results, err := s.nominatim.Search(ctx, query, 1)
	if err != nil {
		metrics.Get().GeoLookupErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("destination lookup failed: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	s.cache.Set(cacheKey, results, s.validationTTL)
	return &results[0], nil
}

// Autocomplete returns candidate destinations for a partial query.
func (s *ServiceImpl) Autocomplete(ctx context.Context, query string) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("GeoLookupService").Start(ctx, "Autocomplete")
	defer span.End()

	cacheKey := cache.QueryKey("auto", query)
	span.SetAttributes(attribute.String("cache.key", cacheKey))
	if cached, found := s.cache.Get(cacheKey); found {
		s.logger.DebugContext(ctx, "Cache hit for autocomplete", slog.String("cache_key", cacheKey))
		return cached, nil
	}

	metrics.Get().GeoLookupRequestsTotal.Add(ctx, 1)
	results, err := s.nominatim.Search(ctx, query, autocompleteLimit)
	if err != nil {
		metrics.Get().GeoLookupErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("autocomplete lookup failed: %w", err)
	}

	s.cache.Set(cacheKey, results, s.validationTTL)
	return results, nil
}

// Nearby builds the candidate pool around a coordinate. Overpass and
// Foursquare are queried concurrently; one provider failing is
// tolerated as long as the other produced candidates.
func (s *ServiceImpl) Nearby(ctx context.Context, lat, lon float64, radius int, category string) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("GeoLookupService").Start(ctx, "Nearby")
	defer span.End()

	cacheKey := cache.NearbyKey("nearby", lat, lon, category)
	span.SetAttributes(attribute.String("cache.key", cacheKey))
	if cached, found := s.cache.Get(cacheKey); found {
		s.logger.DebugContext(ctx, "Cache hit for nearby search", slog.String("cache_key", cacheKey))
		return cached, nil
	}

	var (
		osmResults []types.Candidate
		osmErr     error
		fsqResults []types.Candidate
		fsqErr     error
	)

	osmAttempted := category != "" && SupportsCategory(category)
	g, gctx := errgroup.WithContext(ctx)
	if osmAttempted {
		g.Go(func() error {
			metrics.Get().GeoLookupRequestsTotal.Add(gctx, 1)
			osmResults, osmErr = s.overpass.Nearby(gctx, lat, lon, radius, category)
			if osmErr != nil {
				metrics.Get().GeoLookupErrorsTotal.Add(gctx, 1)
				s.logger.WarnContext(gctx, "Overpass nearby search failed", slog.Any("error", osmErr))
			}
			return nil
		})
	}
	g.Go(func() error {
		metrics.Get().GeoLookupRequestsTotal.Add(gctx, 1)
		fsqResults, fsqErr = s.foursquare.Nearby(gctx, lat, lon, radius, nearbyLimit)
		if fsqErr != nil {
			metrics.Get().GeoLookupErrorsTotal.Add(gctx, 1)
			s.logger.WarnContext(gctx, "Foursquare nearby search failed", slog.Any("error", fsqErr))
		}
		return nil
	})
	_ = g.Wait()

	// Every attempted provider failing is an upstream error; Overpass
	// only counts when it actually ran.
	if fsqErr != nil && (!osmAttempted || osmErr != nil) {
		return nil, fmt.Errorf("nearby search failed: %w", fsqErr)
	}

	// Overpass candidates first: OSM names tend to be the localized
	// ones the reconciler's alias table targets.
	pool := make([]types.Candidate, 0, len(osmResults)+len(fsqResults))
	pool = append(pool, osmResults...)
	pool = append(pool, fsqResults...)

	// Degraded pools are not cached, so the missing provider is retried
	// on the next lookup instead of 30 minutes later.
	if osmErr == nil && fsqErr == nil {
		s.cache.Set(cacheKey, pool, s.resolveTTL)
	}
	return pool, nil
}

// SearchPlace runs a targeted text search near the destination, used
// for per-place coordinate resolution when the candidate pool missed.
func (s *ServiceImpl) SearchPlace(ctx context.Context, query string, lat, lon float64) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("GeoLookupService").Start(ctx, "SearchPlace")
	defer span.End()

	cacheKey := cache.QueryKey(cache.CoordKey("place", lat, lon), query)
	span.SetAttributes(attribute.String("cache.key", cacheKey))
	if cached, found := s.cache.Get(cacheKey); found {
		s.logger.DebugContext(ctx, "Cache hit for place search", slog.String("cache_key", cacheKey))
		return cached, nil
	}

	metrics.Get().GeoLookupRequestsTotal.Add(ctx, 1)
	results, err := s.foursquare.Search(ctx, query, lat, lon, 5)
	if err != nil {
		metrics.Get().GeoLookupErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("place search failed: %w", err)
	}

	s.cache.Set(cacheKey, results, s.resolveTTL)
	return results, nil
}

// PlaceDetails looks up one place by provider id.
func (s *ServiceImpl) PlaceDetails(ctx context.Context, id string) (*types.Candidate, error) {
	ctx, span := otel.Tracer("GeoLookupService").Start(ctx, "PlaceDetails")
	defer span.End()

	metrics.Get().GeoLookupRequestsTotal.Add(ctx, 1)
	candidate, err := s.foursquare.Details(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.Get().GeoLookupErrorsTotal.Add(ctx, 1)
		}
		return nil, err
	}
	return candidate, nil
}
