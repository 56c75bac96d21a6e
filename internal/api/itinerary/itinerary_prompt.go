package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var budgetBands = map[types.BudgetTier]string{
	types.BudgetLow:      "budget-friendly (free sights, street food, public transport)",
	types.BudgetModerate: "moderate spending (mid-range restaurants, paid attractions)",
	types.BudgetLuxury:   "luxury spending (fine dining, premium experiences, private tours)",
}

func buildItineraryPrompt(destination string, places []types.ResolvedPlace, days int, budget types.BudgetTier) string {
	var placeLines []string
	for _, p := range places {
		line := fmt.Sprintf("- %s (latitude %.5f, longitude %.5f)", p.Name, p.Latitude, p.Longitude)
		if p.Category != "" {
			line += fmt.Sprintf(", type: %s", p.Category)
		}
		placeLines = append(placeLines, line)
	}

	return fmt.Sprintf(`
            Plan a %d-day itinerary for a trip to %s.
            The traveller wants to visit ALL of the following places. Include every single one of them, do not drop any:
%s
            You may add other well-known places in %s to fill out the days.
            Keep each day to at most 4 places.
            The traveller's budget is %s: keep any suggested additions within that band.
            Assign each place a time slot: "morning", "afternoon" or "evening".
            Return the response STRICTLY as a JSON object with:
            {
            "destination": "%s",
            "days": [
                {
                "day": 1,
                "places": [
                    {
                    "name": "Name of the place",
                    "time": "morning",
                    "category": "Primary category (e.g., Museum, Historical Site, Park, Restaurant)"
                    }
                ]
                }
            ]
            }`, days, destination, strings.Join(placeLines, "\n"), destination, budgetBands[budget], destination)
}
