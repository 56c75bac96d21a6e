package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-planner/internal/api/geolookup"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trips"
)

// Config contains dependencies needed for the router setup
type Config struct {
	GeoLookupHandler *geolookup.Handler
	ItineraryHandler *itinerary.Handler
	TripsHandler     *trips.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/places", func(r chi.Router) {
			r.Get("/autocomplete", cfg.GeoLookupHandler.Autocomplete)
			r.Get("/nearby", cfg.GeoLookupHandler.Nearby)
			r.Get("/{id}", cfg.GeoLookupHandler.PlaceDetails)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.ItineraryHandler.CreateTrip)
			r.Post("/init", cfg.ItineraryHandler.InitTrip)
			r.Post("/resolve", cfg.ItineraryHandler.ResolveTrip)
			r.Get("/recent", cfg.TripsHandler.ListRecent)
			r.Get("/{tripID}", cfg.TripsHandler.GetTrip)
		})
	})

	return r
}
