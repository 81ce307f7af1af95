package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harukit/journeys-backend-go/internal/models"
)

// JourneyRepository handles database operations for journeys. It implements
// the engine's JourneyStore boundary and the separate history read path.
type JourneyRepository struct {
	db *sql.DB
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

const journeyColumns = `id, user_id, type, from_latitude, from_longitude,
	to_latitude, to_longitude, route_distance, route_duration,
	current_location_duration, created_at, update_at`

// CreateJourney inserts a new journey
func (r *JourneyRepository) CreateJourney(ctx context.Context, j *models.LocationJourney) error {
	query := `
		INSERT INTO journeys (
			id, user_id, type, from_latitude, from_longitude,
			to_latitude, to_longitude, route_distance, route_duration,
			current_location_duration, created_at, update_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		j.ID, j.UserID, j.Type, j.FromLatitude, j.FromLongitude,
		j.ToLatitude, j.ToLongitude, j.RouteDistance, j.RouteDuration,
		j.CurrentLocationDuration, j.CreatedAt, j.UpdateAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journey: %w", err)
	}
	return nil
}

// UpdateJourney applies a patch to an existing journey
func (r *JourneyRepository) UpdateJourney(ctx context.Context, id string, patch *models.JourneyPatch) error {
	query := `
		UPDATE journeys
		SET to_latitude = ?,
		    to_longitude = ?,
		    route_distance = ?,
		    route_duration = ?,
		    current_location_duration = ?,
		    update_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		patch.ToLatitude, patch.ToLongitude, patch.RouteDistance,
		patch.RouteDuration, patch.CurrentLocationDuration, patch.UpdateAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update journey: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("journey %s not found", id)
	}
	return nil
}

// GetLastJourney retrieves the most recently started journey for a user.
// Returns nil without error when the user has no journeys.
func (r *JourneyRepository) GetLastJourney(ctx context.Context, userID string) (*models.LocationJourney, error) {
	query := `SELECT ` + journeyColumns + `
		FROM journeys
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1`

	return r.queryOne(ctx, query, userID)
}

// GetLastMovingJourney retrieves the most recently started MOVING journey for
// a user. Returns nil without error when there is none.
func (r *JourneyRepository) GetLastMovingJourney(ctx context.Context, userID string) (*models.LocationJourney, error) {
	query := `SELECT ` + journeyColumns + `
		FROM journeys
		WHERE user_id = ? AND type = ?
		ORDER BY created_at DESC
		LIMIT 1`

	return r.queryOne(ctx, query, userID, models.JourneyTypeMoving)
}

func (r *JourneyRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.LocationJourney, error) {
	var j models.LocationJourney
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&j.ID, &j.UserID, &j.Type, &j.FromLatitude, &j.FromLongitude,
		&j.ToLatitude, &j.ToLongitude, &j.RouteDistance, &j.RouteDuration,
		&j.CurrentLocationDuration, &j.CreatedAt, &j.UpdateAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query journey: %w", err)
	}
	return &j, nil
}

// GetJourneys retrieves journeys with filtering and pagination, newest first
func (r *JourneyRepository) GetJourneys(ctx context.Context, filter models.JourneyFilter) ([]models.LocationJourney, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{filter.UserID}

	// Add filters
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.EndTime)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	// Get total count
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journeys"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journeys: %w", err)
	}

	// Add pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT ` + journeyColumns + ` FROM journeys` + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journeys: %w", err)
	}
	defer rows.Close()

	var journeys []models.LocationJourney
	for rows.Next() {
		var j models.LocationJourney
		err := rows.Scan(
			&j.ID, &j.UserID, &j.Type, &j.FromLatitude, &j.FromLongitude,
			&j.ToLatitude, &j.ToLongitude, &j.RouteDistance, &j.RouteDuration,
			&j.CurrentLocationDuration, &j.CreatedAt, &j.UpdateAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journey: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate journeys: %w", err)
	}

	return journeys, total, nil
}
