package engine

import (
	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/spatial"
)

// Classify derives the user's motion state from the retained window and the
// newest sample. Any single displacement beyond the movement radius declares
// MOVING, while stillness is only confirmed against the oldest retained
// sample. The asymmetry detects motion quickly and confirms stopping
// conservatively, so one noisy sample cannot flicker the state.
//
// An empty window is insufficient data: the last known state is kept
// unchanged rather than flipped on a single sample.
func Classify(w Window, sample models.RawSample, last models.MotionState, movementRadiusMeters float64) models.MotionState {
	oldest, ok := w.Oldest()
	if !ok {
		return last
	}

	d := spatial.DistanceMeters(oldest.Latitude, oldest.Longitude, sample.Latitude, sample.Longitude)
	if d > movementRadiusMeters {
		return models.MotionMoving
	}
	return models.MotionSteady
}
