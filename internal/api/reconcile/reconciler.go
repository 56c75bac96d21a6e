package reconcile

import (
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Reconciler matches free-text place references against a pool of
// geocoded candidates using a layered first-match-wins strategy.
// Reconcile is a pure function over its inputs; misses are never
// errors, they fall back to the destination's coordinates.
type Reconciler struct {
	matchers []Matcher
}

func New() *Reconciler {
	return &Reconciler{matchers: DefaultMatchers()}
}

// NewWithMatchers builds a reconciler with a custom strategy order.
func NewWithMatchers(matchers []Matcher) *Reconciler {
	return &Reconciler{matchers: matchers}
}

// ResolveOne runs the strategies in priority order against the pool.
// Ties within a strategy resolve to the first candidate in pool order.
func (r *Reconciler) ResolveOne(reference string, pool []types.Candidate) (*types.Candidate, string) {
	normRef := Normalize(reference)
	for _, m := range r.matchers {
		for i := range pool {
			if m.Matches(normRef, Normalize(pool[i].Name)) {
				return &pool[i], m.Name()
			}
		}
	}
	return nil, ""
}

// Reconcile resolves a batch of references against the pool. Every
// returned place carries coordinates: unmatched references get the
// destination's own coordinates and are listed in Unresolved.
func (r *Reconciler) Reconcile(destLat, destLon float64, pool []types.Candidate, references []string) types.ReconciliationResult {
	result := types.ReconciliationResult{
		Places:     make([]types.ResolvedPlace, 0, len(references)),
		Unresolved: []string{},
		Total:      len(references),
	}

	for _, ref := range references {
		cand, matchedBy := r.ResolveOne(ref, pool)
		if cand == nil {
			result.Unresolved = append(result.Unresolved, ref)
			result.Places = append(result.Places, types.ResolvedPlace{
				Name:      ref,
				Latitude:  destLat,
				Longitude: destLon,
				Outcome:   types.OutcomeFallback,
			})
			continue
		}
		result.Resolved++
		result.Places = append(result.Places, types.ResolvedPlace{
			Name:      ref,
			Latitude:  cand.Latitude,
			Longitude: cand.Longitude,
			Outcome:   types.OutcomeResolved,
			MatchedBy: matchedBy,
			Candidate: cand,
			Category:  cand.Category,
		})
	}
	return result
}
