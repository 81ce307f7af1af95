package service

import (
	"context"
	"time"

	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/repository"
)

// JourneyService handles the history read path for journeys
type JourneyService struct {
	repo *repository.JourneyRepository
	now  func() time.Time
}

// NewJourneyService creates a new journey service
func NewJourneyService(repo *repository.JourneyRepository) *JourneyService {
	return &JourneyService{repo: repo, now: time.Now}
}

// GetJourneys retrieves journeys with filtering and pagination
func (s *JourneyService) GetJourneys(ctx context.Context, filter models.JourneyFilter) ([]models.LocationJourney, int64, error) {
	return s.repo.GetJourneys(ctx, filter)
}

// GetCurrentJourney retrieves the user's open journey. The dwell duration
// grows between writes, so it is recomputed at read time.
func (s *JourneyService) GetCurrentJourney(ctx context.Context, userID string) (*models.LocationJourney, error) {
	j, err := s.repo.GetLastJourney(ctx, userID)
	if err != nil || j == nil {
		return nil, err
	}

	if now := s.now().UnixMilli(); now > j.CreatedAt {
		j.CurrentLocationDuration = now - j.CreatedAt
	}
	return j, nil
}
