package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	romeLat = 41.8933
	romeLon = 12.4829
)

func romePool() []types.Candidate {
	return []types.Candidate{
		{ID: "osm/1", Name: "Colosseo", Latitude: 41.8902, Longitude: 12.4922, Category: "attraction"},
		{ID: "osm/2", Name: "Fontana di Trevi", Latitude: 41.9009, Longitude: 12.4833, Category: "fountain"},
		{ID: "osm/3", Name: "Pantheon", Latitude: 41.8986, Longitude: 12.4769, Category: "attraction"},
	}
}

func TestReconcileExactMatch(t *testing.T) {
	r := New()

	result := r.Reconcile(romeLat, romeLon, romePool(), []string{"  Pantheon "})

	require.Len(t, result.Places, 1)
	place := result.Places[0]
	assert.Equal(t, types.OutcomeResolved, place.Outcome)
	assert.Equal(t, "exact", place.MatchedBy)
	assert.Equal(t, "osm/3", place.Candidate.ID)
	assert.Equal(t, 1, result.Resolved)
	assert.Empty(t, result.Unresolved)
}

func TestReconcileSubstringMatch(t *testing.T) {
	r := New()

	result := r.Reconcile(romeLat, romeLon, romePool(), []string{"Trevi"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, "substring", result.Places[0].MatchedBy)
	assert.Equal(t, "osm/2", result.Places[0].Candidate.ID)
}

func TestReconcileAliasMatch(t *testing.T) {
	r := New()

	// "visit the colosseum" has no substring overlap with "Colosseo"
	// beyond what the alias table registers.
	result := r.Reconcile(romeLat, romeLon, romePool(), []string{"visit the Colosseum"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, "alias", result.Places[0].MatchedBy)
	assert.Equal(t, "osm/1", result.Places[0].Candidate.ID)
}

func TestReconcileAliasBeatsTokenOverlap(t *testing.T) {
	r := New()

	// "Roman Forum Ruins" reaches "Foro Romano" through the alias table;
	// token overlap alone would only hit 1 of 3 tokens.
	pool := []types.Candidate{
		{ID: "osm/4", Name: "Foro Romano", Latitude: 41.8925, Longitude: 12.4853},
	}
	result := r.Reconcile(romeLat, romeLon, pool, []string{"Roman Forum Ruins"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, types.OutcomeResolved, result.Places[0].Outcome)
	assert.Equal(t, "alias", result.Places[0].MatchedBy)
}

func TestReconcileTokenOverlapMatch(t *testing.T) {
	r := New()

	pool := []types.Candidate{
		{ID: "fsq/1", Name: "Central Terminal", Latitude: 40.75, Longitude: -73.98},
	}
	// Not a contiguous substring of the candidate, so only the token
	// strategy can connect them.
	result := r.Reconcile(romeLat, romeLon, pool, []string{"Grand Central Station Terminal"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, "token_overlap", result.Places[0].MatchedBy)
}

func TestReconcileStrategyPriority(t *testing.T) {
	r := New()

	// Both candidates would match, but the exact one must win even
	// though the substring candidate comes first in pool order.
	pool := []types.Candidate{
		{ID: "a", Name: "Pantheon Gift Shop", Latitude: 1, Longitude: 1},
		{ID: "b", Name: "Pantheon", Latitude: 2, Longitude: 2},
	}
	result := r.Reconcile(romeLat, romeLon, pool, []string{"Pantheon"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, "exact", result.Places[0].MatchedBy)
	assert.Equal(t, "b", result.Places[0].Candidate.ID)
}

func TestReconcileTiesResolveToPoolOrder(t *testing.T) {
	r := New()

	pool := []types.Candidate{
		{ID: "first", Name: "Fontana di Trevi", Latitude: 1, Longitude: 1},
		{ID: "second", Name: "Fontana di Trevi", Latitude: 2, Longitude: 2},
	}
	result := r.Reconcile(romeLat, romeLon, pool, []string{"fontana di trevi"})

	require.Len(t, result.Places, 1)
	assert.Equal(t, "first", result.Places[0].Candidate.ID)
}

func TestReconcileMissFallsBackToDestination(t *testing.T) {
	r := New()

	result := r.Reconcile(romeLat, romeLon, romePool(), []string{"NonexistentPlaceXYZ"})

	require.Len(t, result.Places, 1)
	place := result.Places[0]
	assert.Equal(t, types.OutcomeFallback, place.Outcome)
	assert.Equal(t, romeLat, place.Latitude)
	assert.Equal(t, romeLon, place.Longitude)
	assert.Nil(t, place.Candidate)
	assert.Equal(t, []string{"NonexistentPlaceXYZ"}, result.Unresolved)
	assert.Equal(t, 0, result.Resolved)
	assert.Equal(t, 1, result.Total)
}

func TestReconcileBatchCounts(t *testing.T) {
	r := New()

	result := r.Reconcile(romeLat, romeLon, romePool(),
		[]string{"Colosseum", "Trevi Fountain", "NonexistentPlaceXYZ"})

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Resolved)
	assert.Equal(t, []string{"NonexistentPlaceXYZ"}, result.Unresolved)
	require.Len(t, result.Places, 3)
	// Every place carries coordinates, matched or not.
	for _, place := range result.Places {
		assert.NotZero(t, place.Latitude)
		assert.NotZero(t, place.Longitude)
	}
}

func TestReconcileEmptyReferences(t *testing.T) {
	r := New()

	result := r.Reconcile(romeLat, romeLon, romePool(), nil)

	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Places)
	assert.Empty(t, result.Unresolved)
}
