package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	GeoLookupRequestsTotal   metric.Int64Counter
	GeoLookupErrorsTotal     metric.Int64Counter
	GeneratorRequestsTotal   metric.Int64Counter
	GeneratorDurationSeconds metric.Float64Histogram
	PlacesResolvedTotal      metric.Int64Counter
	PlacesFallbackTotal      metric.Int64Counter
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripPlannerAPI")
		var err error
		m := &AppMetrics{}

		m.GeoLookupRequestsTotal, err = meter.Int64Counter(
			"geolookup_requests_total",
			metric.WithDescription("Total number of geodata provider requests issued"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geolookup_requests_total: %v", err)
		}

		m.GeoLookupErrorsTotal, err = meter.Int64Counter(
			"geolookup_errors_total",
			metric.WithDescription("Total number of failed geodata provider requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geolookup_errors_total: %v", err)
		}

		m.GeneratorRequestsTotal, err = meter.Int64Counter(
			"generator_requests_total",
			metric.WithDescription("Total number of itinerary generator calls"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generator_requests_total: %v", err)
		}

		m.GeneratorDurationSeconds, err = meter.Float64Histogram(
			"generator_duration_seconds",
			metric.WithDescription("Duration of itinerary generator calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generator_duration_seconds: %v", err)
		}

		m.PlacesResolvedTotal, err = meter.Int64Counter(
			"places_resolved_total",
			metric.WithDescription("Total number of place references matched to a candidate"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_resolved_total: %v", err)
		}

		m.PlacesFallbackTotal, err = meter.Int64Counter(
			"places_fallback_total",
			metric.WithDescription("Total number of place references given destination fallback coordinates"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_fallback_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
