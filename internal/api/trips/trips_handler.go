package trips

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

const defaultRecentLimit = 20

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// GetTrip returns a previously created itinerary by id.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetTrip").Start(r.Context(), "GetTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetTrip"))

	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "trip id must be a UUID")
		return
	}

	itinerary, err := h.repo.GetItinerary(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

// ListRecent returns the most recently created itineraries.
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListRecent").Start(r.Context(), "ListRecent", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/recent"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListRecent"))

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	itineraries, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"trips": itineraries})
}
