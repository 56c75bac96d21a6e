package types

import (
	"time"

	"github.com/google/uuid"
)

// BudgetTier is passed through to the itinerary generator as an
// instruction; it is validated here but never enforced downstream.
type BudgetTier string

const (
	BudgetLow      BudgetTier = "low"
	BudgetModerate BudgetTier = "moderate"
	BudgetLuxury   BudgetTier = "luxury"
)

func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetModerate, BudgetLuxury:
		return true
	}
	return false
}

const (
	MinTripDays = 1
	MaxTripDays = 30
)

// TripRequest is the client payload for trip init and trip creation.
type TripRequest struct {
	Destination string     `json:"destination"`
	Places      []string   `json:"places"`
	Days        int        `json:"days"`
	Budget      BudgetTier `json:"budget"`
}

// GeneratedPlace is one entry of the raw generator output, before
// coordinate reconciliation.
type GeneratedPlace struct {
	Name     string   `json:"name"`
	TimeSlot TimeSlot `json:"time"`
	Category string   `json:"category,omitempty"`
}

// GeneratedDay is one day of the raw generator output.
type GeneratedDay struct {
	Day    int              `json:"day"`
	Places []GeneratedPlace `json:"places"`
}

// GeneratedItinerary is the parsed generator response.
type GeneratedItinerary struct {
	Destination string         `json:"destination"`
	Days        []GeneratedDay `json:"days"`
}

// ResolveRequest is the client payload for attaching coordinates to an
// externally supplied itinerary.
type ResolveRequest struct {
	Destination string         `json:"destination"`
	Days        []GeneratedDay `json:"days"`
}

// DayPlan is one day of the enriched itinerary, every place carrying
// coordinates (possibly the destination fallback).
type DayPlan struct {
	Day    int             `json:"day"`
	Places []ResolvedPlace `json:"places"`
}

// ResolutionStats summarizes reconciliation over a whole itinerary.
type ResolutionStats struct {
	TotalPlaces      int      `json:"total_places"`
	ResolvedPlaces   int      `json:"resolved_places"`
	UnresolvedPlaces []string `json:"unresolved_places"`
	ElapsedMs        int64    `json:"elapsed_ms"`
}

// Itinerary is the enriched, renderable trip plan returned to clients
// and persisted for later retrieval.
type Itinerary struct {
	ID          uuid.UUID       `json:"id,omitempty"`
	Destination string          `json:"destination"`
	DestLat     float64         `json:"destination_latitude"`
	DestLon     float64         `json:"destination_longitude"`
	Budget      BudgetTier      `json:"budget"`
	Days        []DayPlan       `json:"days"`
	Stats       ResolutionStats `json:"stats"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

// TripInitResponse is returned by trip init: the validated destination
// plus the reconciliation of the user-supplied places against the
// nearby candidate pool.
type TripInitResponse struct {
	Destination    Candidate            `json:"destination"`
	Reconciliation ReconciliationResult `json:"reconciliation"`
}
