package types

// Candidate is a geocoded place returned by one of the geodata providers.
// The ID is only unique within a single provider response.
type Candidate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Outcome tells how a place reference got its coordinates. Serialized
// places always carry coordinates, so a reference that matched nothing
// surfaces as OutcomeFallback on the place and by name in the batch's
// Unresolved list; OutcomeUnresolved is the state of a reference before
// fallback coordinates are attached and never reaches the wire.
type Outcome string

const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeFallback   Outcome = "fallback"
	OutcomeUnresolved Outcome = "unresolved"
)

// TimeSlot buckets a planned visit within a day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

func (t TimeSlot) Valid() bool {
	switch t {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// ResolvedPlace pairs a free-text place reference with coordinates.
// Outcome is always set; Fallback means the coordinates are the
// destination's own, not the place's.
type ResolvedPlace struct {
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Outcome   Outcome    `json:"outcome"`
	MatchedBy string     `json:"matched_by,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
	TimeSlot  TimeSlot   `json:"time,omitempty"`
	Category  string     `json:"category,omitempty"`
}

// ReconciliationResult is the outcome of matching a batch of references
// against a candidate pool. Partial results are always returned.
type ReconciliationResult struct {
	Places     []ResolvedPlace `json:"places"`
	Unresolved []string        `json:"unresolved"`
	Total      int             `json:"total"`
	Resolved   int             `json:"resolved"`
}
