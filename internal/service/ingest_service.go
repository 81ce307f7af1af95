package service

import (
	"context"

	"github.com/harukit/journeys-backend-go/internal/engine"
	"github.com/harukit/journeys-backend-go/internal/models"
)

// IngestService feeds device samples into the journey engine
type IngestService struct {
	engine *engine.Engine
}

// NewIngestService creates a new ingest service
func NewIngestService(eng *engine.Engine) *IngestService {
	return &IngestService{engine: eng}
}

// ProcessSample runs one sample for the authenticated user through the engine
func (s *IngestService) ProcessSample(ctx context.Context, userID string, req models.SampleRequest) (*engine.Mutation, error) {
	sample := models.RawSample{
		UserID:    userID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: req.Timestamp,
	}
	return s.engine.ProcessSample(ctx, sample)
}
