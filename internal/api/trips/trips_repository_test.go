package trips

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := NewRepository(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return repo, mockPool
}

func sampleItinerary() types.Itinerary {
	return types.Itinerary{
		Destination: "Rome",
		DestLat:     41.8933,
		DestLon:     12.4829,
		Budget:      types.BudgetModerate,
		Days: []types.DayPlan{
			{Day: 1, Places: []types.ResolvedPlace{
				{Name: "Colosseum", Latitude: 41.8902, Longitude: 12.4922, Outcome: types.OutcomeResolved},
			}},
		},
		Stats: types.ResolutionStats{TotalPlaces: 1, ResolvedPlaces: 1, UnresolvedPlaces: []string{}},
	}
}

func TestSaveItinerary(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)
	want := uuid.New()

	mockPool.ExpectQuery("INSERT INTO itineraries").
		WithArgs("Rome", 41.8933, 12.4829, "moderate", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(want))

	got, err := repo.SaveItinerary(context.Background(), sampleItinerary())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSaveItineraryQueryError(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)

	mockPool.ExpectQuery("INSERT INTO itineraries").
		WithArgs("Rome", 41.8933, 12.4829, "moderate", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.SaveItinerary(context.Background(), sampleItinerary())
	assert.Error(t, err)
}

func TestGetItinerary(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)
	id := uuid.New()
	created := time.Now().UTC().Truncate(time.Second)

	mockPool.ExpectQuery("SELECT id, destination").
		WithArgs(id).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "destination", "destination_lat", "destination_lon", "budget", "days", "stats", "created_at"}).
			AddRow(id, "Rome", 41.8933, 12.4829, "moderate",
				[]byte(`[{"day": 1, "places": [{"name": "Colosseum", "latitude": 41.8902, "longitude": 12.4922, "outcome": "resolved"}]}]`),
				[]byte(`{"total_places": 1, "resolved_places": 1, "unresolved_places": [], "elapsed_ms": 12}`),
				created))

	itin, err := repo.GetItinerary(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, itin.ID)
	assert.Equal(t, "Rome", itin.Destination)
	assert.Equal(t, types.BudgetModerate, itin.Budget)
	require.Len(t, itin.Days, 1)
	assert.Equal(t, "Colosseum", itin.Days[0].Places[0].Name)
	assert.Equal(t, 1, itin.Stats.ResolvedPlaces)
	assert.Equal(t, created, itin.CreatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetItineraryNotFound(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT id, destination").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "destination", "destination_lat", "destination_lon", "budget", "days", "stats", "created_at"}))

	_, err := repo.GetItinerary(context.Background(), id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListRecent(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)
	created := time.Now().UTC()

	rows := pgxmock.
		NewRows([]string{"id", "destination", "destination_lat", "destination_lon", "budget", "days", "stats", "created_at"}).
		AddRow(uuid.New(), "Rome", 41.8933, 12.4829, "moderate",
			[]byte(`[]`), []byte(`{}`), created).
		AddRow(uuid.New(), "Lisbon", 38.7223, -9.1393, "low",
			[]byte(`[]`), []byte(`{}`), created.Add(-time.Hour))

	mockPool.ExpectQuery("SELECT id, destination").
		WithArgs(20).
		WillReturnRows(rows)

	itineraries, err := repo.ListRecent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, itineraries, 2)
	assert.Equal(t, "Rome", itineraries[0].Destination)
	assert.Equal(t, "Lisbon", itineraries[1].Destination)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListRecentQueryError(t *testing.T) {
	repo, mockPool := newRepoWithMock(t)

	mockPool.ExpectQuery("SELECT id, destination").
		WithArgs(20).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListRecent(context.Background(), 20)
	assert.Error(t, err)
}
