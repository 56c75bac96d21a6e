package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/geolookup"
	"github.com/FACorreiaa/go-trip-planner/internal/api/reconcile"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ErrInvalidRequest marks client input errors; handlers map it to 400.
var ErrInvalidRequest = errors.New("invalid trip request")

const candidatePoolRadius = 3000 // meters around the destination

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service orchestrates the trip flow: validate input, geocode the
// destination, build the candidate pool, reconcile place names, call
// the generator and reconcile its output into a renderable itinerary.
type Service interface {
	InitTrip(ctx context.Context, req types.TripRequest) (*types.TripInitResponse, error)
	CreateTrip(ctx context.Context, req types.TripRequest) (*types.Itinerary, error)
	ResolveItinerary(ctx context.Context, req types.ResolveRequest) (*types.Itinerary, error)
}

// TripStore persists created itineraries. Persistence is best effort:
// a failed save never fails the request.
type TripStore interface {
	SaveItinerary(ctx context.Context, itinerary types.Itinerary) (uuid.UUID, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	geo        geolookup.Service
	reconciler *reconcile.Reconciler
	generator  Generator
	store      TripStore
	llmCache   *cache.Cache
}

func NewService(geo geolookup.Service, generator Generator, store TripStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		geo:        geo,
		reconciler: reconcile.New(),
		generator:  generator,
		store:      store,
		llmCache:   cache.New(24*time.Hour, 1*time.Hour),
	}
}

func validateTripRequest(req types.TripRequest) error {
	if strings.TrimSpace(req.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if req.Days < types.MinTripDays || req.Days > types.MaxTripDays {
		return fmt.Errorf("%w: day count must be between %d and %d", ErrInvalidRequest, types.MinTripDays, types.MaxTripDays)
	}
	if !req.Budget.Valid() {
		return fmt.Errorf("%w: budget must be one of low, moderate, luxury", ErrInvalidRequest)
	}
	if len(req.Places) == 0 {
		return fmt.Errorf("%w: at least one place is required", ErrInvalidRequest)
	}
	return nil
}

// InitTrip validates the request, geocodes the destination and
// reconciles the user-supplied places against the nearby pool.
func (s *ServiceImpl) InitTrip(ctx context.Context, req types.TripRequest) (*types.TripInitResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "InitTrip")
	defer span.End()

	if err := validateTripRequest(req); err != nil {
		return nil, err
	}

	dest, err := s.geo.SearchDestination(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	pool, err := s.geo.Nearby(ctx, dest.Latitude, dest.Longitude, candidatePoolRadius, "")
	if err != nil {
		return nil, err
	}

	recon := s.reconciler.Reconcile(dest.Latitude, dest.Longitude, pool, req.Places)
	s.recordOutcomes(ctx, recon.Resolved, recon.Total-recon.Resolved)

	return &types.TripInitResponse{
		Destination:    *dest,
		Reconciliation: recon,
	}, nil
}

// CreateTrip runs the full flow and returns the enriched itinerary
// with resolution statistics.
func (s *ServiceImpl) CreateTrip(ctx context.Context, req types.TripRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "CreateTrip")
	defer span.End()
	start := time.Now()

	if err := validateTripRequest(req); err != nil {
		return nil, err
	}

	dest, err := s.geo.SearchDestination(ctx, req.Destination)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("trip.destination", dest.Name))

	pool, err := s.geo.Nearby(ctx, dest.Latitude, dest.Longitude, candidatePoolRadius, "")
	if err != nil {
		return nil, err
	}

	// Validate the user's places first so the generator receives
	// coordinates where we have them.
	userRecon := s.reconciler.Reconcile(dest.Latitude, dest.Longitude, pool, req.Places)

	generated, err := s.generateCached(ctx, dest.Name, userRecon.Places, req.Days, req.Budget)
	if err != nil {
		return nil, err
	}

	itinerary := s.resolveDays(ctx, dest, pool, generated.Days)
	itinerary.Budget = req.Budget
	itinerary.Stats.ElapsedMs = time.Since(start).Milliseconds()

	if s.store != nil {
		id, err := s.store.SaveItinerary(ctx, *itinerary)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to persist itinerary, returning it anyway", slog.Any("error", err))
		} else {
			itinerary.ID = id
			itinerary.CreatedAt = time.Now().UTC()
		}
	}
	return itinerary, nil
}

// ResolveItinerary attaches coordinates to an externally supplied
// itinerary without calling the generator.
func (s *ServiceImpl) ResolveItinerary(ctx context.Context, req types.ResolveRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ResolveItinerary")
	defer span.End()
	start := time.Now()

	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidRequest)
	}

	dest, err := s.geo.SearchDestination(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	pool, err := s.geo.Nearby(ctx, dest.Latitude, dest.Longitude, candidatePoolRadius, "")
	if err != nil {
		return nil, err
	}

	itinerary := s.resolveDays(ctx, dest, pool, req.Days)
	itinerary.Stats.ElapsedMs = time.Since(start).Milliseconds()
	return itinerary, nil
}

// generateCached memoizes generator responses per normalized request.
func (s *ServiceImpl) generateCached(ctx context.Context, destination string, places []types.ResolvedPlace, days int, budget types.BudgetTier) (*types.GeneratedItinerary, error) {
	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, reconcile.Normalize(p.Name))
	}
	cacheKey := fmt.Sprintf("gen:%s:%d:%s:%s", reconcile.Normalize(destination), days, budget, strings.Join(names, ","))

	if cached, found := s.llmCache.Get(cacheKey); found {
		if generated, ok := cached.(*types.GeneratedItinerary); ok {
			s.logger.InfoContext(ctx, "Cache hit for generated itinerary", slog.String("cache_key", cacheKey))
			return generated, nil
		}
	}

	generated, err := s.generator.GenerateItinerary(ctx, destination, places, days, budget)
	if err != nil {
		return nil, err
	}
	s.llmCache.Set(cacheKey, generated, cache.DefaultExpiration)
	return generated, nil
}

type placeResult struct {
	idx   int
	place types.ResolvedPlace
}

// resolveDays reconciles every generated place to coordinates. Places
// within a day resolve concurrently and join before the day is
// assembled; a failed lookup falls back to the destination.
func (s *ServiceImpl) resolveDays(ctx context.Context, dest *types.Candidate, pool []types.Candidate, days []types.GeneratedDay) *types.Itinerary {
	itinerary := &types.Itinerary{
		Destination: dest.Name,
		DestLat:     dest.Latitude,
		DestLon:     dest.Longitude,
		Days:        make([]types.DayPlan, 0, len(days)),
		Stats: types.ResolutionStats{
			UnresolvedPlaces: []string{},
		},
	}

	for _, day := range days {
		resultCh := make(chan placeResult, len(day.Places))
		var wg sync.WaitGroup
		wg.Add(len(day.Places))
		for i, gp := range day.Places {
			go s.resolvePlaceWorker(&wg, ctx, i, gp, dest, pool, resultCh)
		}
		go func() {
			wg.Wait()
			close(resultCh)
		}()

		resolved := make([]types.ResolvedPlace, len(day.Places))
		for res := range resultCh {
			resolved[res.idx] = res.place
		}

		for _, place := range resolved {
			itinerary.Stats.TotalPlaces++
			if place.Outcome == types.OutcomeResolved {
				itinerary.Stats.ResolvedPlaces++
			} else {
				itinerary.Stats.UnresolvedPlaces = append(itinerary.Stats.UnresolvedPlaces, place.Name)
			}
		}
		itinerary.Days = append(itinerary.Days, types.DayPlan{Day: day.Day, Places: resolved})
	}

	s.recordOutcomes(ctx, itinerary.Stats.ResolvedPlaces, itinerary.Stats.TotalPlaces-itinerary.Stats.ResolvedPlaces)
	return itinerary
}

func (s *ServiceImpl) resolvePlaceWorker(wg *sync.WaitGroup, ctx context.Context, idx int,
	gp types.GeneratedPlace, dest *types.Candidate, pool []types.Candidate, resultCh chan<- placeResult) {
	defer wg.Done()

	cand, matchedBy := s.reconciler.ResolveOne(gp.Name, pool)
	if cand == nil {
		// Pool miss: one targeted lookup near the destination. A
		// failure here falls back instead of aborting the day.
		extra, err := s.geo.SearchPlace(ctx, gp.Name, dest.Latitude, dest.Longitude)
		if err != nil {
			s.logger.WarnContext(ctx, "Place search failed, using destination fallback",
				slog.String("place", gp.Name), slog.Any("error", err))
		} else {
			cand, matchedBy = s.reconciler.ResolveOne(gp.Name, extra)
		}
	}

	if cand == nil {
		resultCh <- placeResult{idx: idx, place: types.ResolvedPlace{
			Name:      gp.Name,
			Latitude:  dest.Latitude,
			Longitude: dest.Longitude,
			Outcome:   types.OutcomeFallback,
			TimeSlot:  gp.TimeSlot,
			Category:  gp.Category,
		}}
		return
	}

	category := gp.Category
	if category == "" {
		category = cand.Category
	}
	resultCh <- placeResult{idx: idx, place: types.ResolvedPlace{
		Name:      gp.Name,
		Latitude:  cand.Latitude,
		Longitude: cand.Longitude,
		Outcome:   types.OutcomeResolved,
		MatchedBy: matchedBy,
		Candidate: cand,
		TimeSlot:  gp.TimeSlot,
		Category:  category,
	}}
}

func (s *ServiceImpl) recordOutcomes(ctx context.Context, resolved, fallback int) {
	metrics.Get().PlacesResolvedTotal.Add(ctx, int64(resolved))
	metrics.Get().PlacesFallbackTotal.Add(ctx, int64(fallback))
}
