package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harukit/journeys-backend-go/internal/models"
)

// SampleRepository persists each user's rolling recent-sample window. It
// implements the engine's RecentSampleStore boundary.
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// SaveWindow replaces the stored window for a user
func (r *SampleRepository) SaveWindow(ctx context.Context, userID string, samples []models.RawSample) error {
	payload, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to serialize window: %w", err)
	}

	query := `
		INSERT INTO recent_sample_windows (user_id, samples_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			samples_json = excluded.samples_json,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, string(payload), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save window: %w", err)
	}
	return nil
}

// GetWindow loads the stored window for a user. Returns an empty window when
// none has been saved.
func (r *SampleRepository) GetWindow(ctx context.Context, userID string) ([]models.RawSample, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT samples_json FROM recent_sample_windows WHERE user_id = ?", userID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query window: %w", err)
	}

	var samples []models.RawSample
	if err := json.Unmarshal([]byte(payload), &samples); err != nil {
		return nil, fmt.Errorf("failed to parse window: %w", err)
	}
	return samples, nil
}
