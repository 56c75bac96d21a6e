package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ErrNotFound is returned when no itinerary exists for an id.
var ErrNotFound = errors.New("itinerary not found")

// PGXQuerier is the slice of pgxpool.Pool the repository needs; it is
// also satisfied by pgxmock pools in tests.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*PostgresRepository)(nil)

// Repository persists created itineraries.
type Repository interface {
	SaveItinerary(ctx context.Context, itinerary types.Itinerary) (uuid.UUID, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.Itinerary, error)
	ListRecent(ctx context.Context, limit int) ([]types.Itinerary, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewRepository(db PGXQuerier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresRepository) SaveItinerary(ctx context.Context, itinerary types.Itinerary) (uuid.UUID, error) {
	daysJSON, err := json.Marshal(itinerary.Days)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary days: %w", err)
	}
	statsJSON, err := json.Marshal(itinerary.Stats)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary stats: %w", err)
	}

	query := `
        INSERT INTO itineraries (
            destination, destination_lat, destination_lon, budget, days, stats
        ) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
    `
	var id uuid.UUID
	if err = r.db.QueryRow(ctx, query,
		itinerary.Destination, itinerary.DestLat, itinerary.DestLon, string(itinerary.Budget), daysJSON, statsJSON,
	).Scan(&id); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return uuid.Nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetItinerary(ctx context.Context, id uuid.UUID) (*types.Itinerary, error) {
	query := `
        SELECT id, destination, destination_lat, destination_lon, budget, days, stats, created_at
        FROM itineraries
        WHERE id = $1
    `
	itinerary, err := scanItinerary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to fetch itinerary: %w", err)
	}
	return itinerary, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]types.Itinerary, error) {
	query := `
        SELECT id, destination, destination_lat, destination_lon, budget, days, stats, created_at
        FROM itineraries
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	var itineraries []types.Itinerary
	for rows.Next() {
		itinerary, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		itineraries = append(itineraries, *itinerary)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed iterating itinerary rows: %w", err)
	}
	return itineraries, nil
}

func scanItinerary(row pgx.Row) (*types.Itinerary, error) {
	var (
		itinerary types.Itinerary
		budget    string
		daysJSON  []byte
		statsJSON []byte
	)
	if err := row.Scan(&itinerary.ID, &itinerary.Destination, &itinerary.DestLat, &itinerary.DestLon,
		&budget, &daysJSON, &statsJSON, &itinerary.CreatedAt); err != nil {
		return nil, err
	}
	itinerary.Budget = types.BudgetTier(budget)
	if err := json.Unmarshal(daysJSON, &itinerary.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal itinerary days: %w", err)
	}
	if err := json.Unmarshal(statsJSON, &itinerary.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal itinerary stats: %w", err)
	}
	return &itinerary, nil
}
