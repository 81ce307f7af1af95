package models

// RawSample represents a single GPS fix reported by a user's device
type RawSample struct {
	UserID    string  `json:"user_id" db:"user_id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Timestamp int64   `json:"timestamp" db:"timestamp"` // Unix timestamp in milliseconds
}

// SampleRequest represents the ingest payload posted by a device.
// The user identity comes from the auth token, not the body.
type SampleRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp" binding:"required"` // Unix timestamp in milliseconds
}
