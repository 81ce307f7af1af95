package models

// MotionState represents the instantaneous classification of a user's motion
type MotionState string

// MotionState constants
const (
	MotionMoving MotionState = "MOVING"
	MotionSteady MotionState = "STEADY"
)

// LocationJourney represents one segment of a user's timeline: either a dwell
// at a place (STEADY) or a transit between places (MOVING)
type LocationJourney struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Type   string `json:"type" db:"type"` // STEADY, MOVING

	// Anchor point (where the segment started)
	FromLatitude  float64 `json:"from_latitude" db:"from_latitude"`
	FromLongitude float64 `json:"from_longitude" db:"from_longitude"`

	// Endpoint, present once the segment has a distinct moving endpoint
	ToLatitude  *float64 `json:"to_latitude,omitempty" db:"to_latitude"`
	ToLongitude *float64 `json:"to_longitude,omitempty" db:"to_longitude"`

	// Transit metrics, only set for MOVING segments
	RouteDistance *float64 `json:"route_distance,omitempty" db:"route_distance"` // meters
	RouteDuration *int64   `json:"route_duration,omitempty" db:"route_duration"` // milliseconds

	// How long the user dwelt at/through this segment
	CurrentLocationDuration int64 `json:"current_location_duration" db:"current_location_duration"` // milliseconds

	CreatedAt int64 `json:"created_at" db:"created_at"` // Unix timestamp in milliseconds, segment start
	UpdateAt  int64 `json:"update_at" db:"update_at"`   // Unix timestamp in milliseconds, last mutation
}

// JourneyType constants
const (
	JourneyTypeSteady = "STEADY"
	JourneyTypeMoving = "MOVING"
)

// IsMoving reports whether the journey is a transit segment
func (j *LocationJourney) IsMoving() bool {
	return j.Type == JourneyTypeMoving
}

// IsSteady reports whether the journey is a dwell segment
func (j *LocationJourney) IsSteady() bool {
	return j.Type == JourneyTypeSteady
}

// LastKnownPoint returns the most recent position recorded on the journey:
// the endpoint for a MOVING segment, the anchor otherwise
func (j *LocationJourney) LastKnownPoint() (lat, lon float64) {
	if j.IsMoving() && j.ToLatitude != nil && j.ToLongitude != nil {
		return *j.ToLatitude, *j.ToLongitude
	}
	return j.FromLatitude, j.FromLongitude
}

// JourneyPatch represents an in-place update to the open MOVING journey
type JourneyPatch struct {
	ToLatitude              float64 `json:"to_latitude"`
	ToLongitude             float64 `json:"to_longitude"`
	RouteDistance           float64 `json:"route_distance"`             // meters
	RouteDuration           int64   `json:"route_duration"`             // milliseconds
	CurrentLocationDuration int64   `json:"current_location_duration"`  // milliseconds
	UpdateAt                int64   `json:"update_at"`                  // Unix timestamp in milliseconds
}

// Apply writes the patch onto the journey
func (p *JourneyPatch) Apply(j *LocationJourney) {
	toLat, toLon := p.ToLatitude, p.ToLongitude
	dist, dur := p.RouteDistance, p.RouteDuration
	j.ToLatitude = &toLat
	j.ToLongitude = &toLon
	j.RouteDistance = &dist
	j.RouteDuration = &dur
	j.CurrentLocationDuration = p.CurrentLocationDuration
	j.UpdateAt = p.UpdateAt
}

// JourneyFilter represents filter parameters for querying journeys
type JourneyFilter struct {
	UserID    string `form:"-"`
	Type      string `form:"type"`
	StartTime int64  `form:"startTime"` // Unix timestamp in milliseconds
	EndTime   int64  `form:"endTime"`   // Unix timestamp in milliseconds
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}
