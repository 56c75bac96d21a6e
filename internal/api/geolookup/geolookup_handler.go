package geolookup

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

const defaultNearbyRadius = 3000 // meters

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Autocomplete serves destination suggestions for a partial query.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Autocomplete").Start(r.Context(), "Autocomplete", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/autocomplete"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Autocomplete"))

	query := r.URL.Query().Get("q")
	if query == "" {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "query parameter q is required")
		return
	}

	results, err := h.service.Autocomplete(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Autocomplete lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Geodata lookup failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"candidates": results})
}

// Nearby serves the candidate pool around a coordinate.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Nearby").Start(r.Context(), "Nearby", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/nearby"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Nearby"))

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "lat and lon must be decimal degrees")
		return
	}

	radius := defaultNearbyRadius
	if raw := r.URL.Query().Get("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "radius must be a positive integer of meters")
			return
		}
		radius = parsed
	}
	category := r.URL.Query().Get("category")

	results, err := h.service.Nearby(ctx, lat, lon, radius, category)
	if err != nil {
		l.ErrorContext(ctx, "Nearby lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Geodata lookup failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"candidates": results})
}

// PlaceDetails serves a single place by provider id.
func (h *Handler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceDetails").Start(r.Context(), "PlaceDetails", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlaceDetails"))

	id := chi.URLParam(r, "id")
	if id == "" {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", "place id is required")
		return
	}

	candidate, err := h.service.PlaceDetails(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Place not found")
			return
		}
		l.ErrorContext(ctx, "Place details lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Geodata lookup failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, candidate)
}
