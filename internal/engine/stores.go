package engine

import (
	"context"

	"github.com/harukit/journeys-backend-go/internal/models"
)

// JourneyStore is the engine's boundary to durable journey persistence.
// The engine only ever touches the most recent journeys for a user; time-range
// queries and aggregation belong to a separate read path.
type JourneyStore interface {
	CreateJourney(ctx context.Context, journey *models.LocationJourney) error
	UpdateJourney(ctx context.Context, id string, patch *models.JourneyPatch) error
	GetLastJourney(ctx context.Context, userID string) (*models.LocationJourney, error)
	GetLastMovingJourney(ctx context.Context, userID string) (*models.LocationJourney, error)
}

// RecentSampleStore durably keeps each user's serialized rolling window so a
// process restart does not erase the classification input.
type RecentSampleStore interface {
	SaveWindow(ctx context.Context, userID string, samples []models.RawSample) error
	GetWindow(ctx context.Context, userID string) ([]models.RawSample, error)
}
