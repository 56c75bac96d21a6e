package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// parseGeneratedItinerary decodes the model's JSON output. Malformed
// JSON or missing required fields are hard errors; the call is not
// retried or repaired.
func parseGeneratedItinerary(raw string) (*types.GeneratedItinerary, error) {
	jsonStr := strings.TrimSpace(raw)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")

	var itinerary types.GeneratedItinerary
	if err := json.Unmarshal([]byte(jsonStr), &itinerary); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary JSON: %w", err)
	}

	if len(itinerary.Days) == 0 {
		return nil, fmt.Errorf("itinerary JSON contains no days")
	}
	for di, day := range itinerary.Days {
		if len(day.Places) == 0 {
			return nil, fmt.Errorf("itinerary day %d contains no places", day.Day)
		}
		for pi, place := range day.Places {
			if strings.TrimSpace(place.Name) == "" {
				return nil, fmt.Errorf("itinerary day %d has a place with no name", day.Day)
			}
			slot := types.TimeSlot(strings.ToLower(strings.TrimSpace(string(place.TimeSlot))))
			if !slot.Valid() {
				return nil, fmt.Errorf("itinerary day %d has invalid time slot %q", day.Day, place.TimeSlot)
			}
			itinerary.Days[di].Places[pi].TimeSlot = slot
		}
	}
	return &itinerary, nil
}
