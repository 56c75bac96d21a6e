package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/geolookup"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

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

// InitTrip validates the destination and the user-supplied places,
// returning the geocoded destination and the reconciliation result.
func (h *Handler) InitTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InitTrip").Start(r.Context(), "InitTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/init"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "InitTrip"))

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.service.InitTrip(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Trip initialized",
		slog.String("destination", resp.Destination.Name),
		slog.Int("resolved", resp.Reconciliation.Resolved),
		slog.Int("total", resp.Reconciliation.Total))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// CreateTrip runs the full itinerary flow.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CreateTrip").Start(r.Context(), "CreateTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateTrip"))

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	itinerary, err := h.service.CreateTrip(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Trip created",
		slog.String("destination", itinerary.Destination),
		slog.Int("total_places", itinerary.Stats.TotalPlaces),
		slog.Int("resolved_places", itinerary.Stats.ResolvedPlaces))
	api.WriteJSONResponse(w, r, http.StatusCreated, itinerary)
}

// ResolveTrip attaches coordinates to an externally supplied itinerary.
func (h *Handler) ResolveTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResolveTrip").Start(r.Context(), "ResolveTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/resolve"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ResolveTrip"))

	var req types.ResolveRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	itinerary, err := h.service.ResolveItinerary(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

// writeServiceError maps service errors to the uniform error shape.
// Upstream error details are logged, never sent to the client.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, geolookup.ErrNoResults):
		api.ErrorResponse(w, r, http.StatusNotFound, "Destination not found")
	default:
		l.ErrorContext(ctx, "Trip request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process trip request")
	}
}
