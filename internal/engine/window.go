package engine

import (
	"time"

	"github.com/harukit/journeys-backend-go/internal/models"
)

// Window is a user's rolling buffer of recent samples, ordered by timestamp.
// It is a decaying summary bounded by a time horizon, not a sample count, so
// a burst of samples cannot grow it past the horizon.
type Window []models.RawSample

// Append returns the window extended with sample, kept ordered by timestamp
// and trimmed to the horizon measured back from the newest retained sample.
// The receiver is not modified.
func (w Window) Append(sample models.RawSample, horizon time.Duration) Window {
	maxTs := sample.Timestamp
	if newest, ok := w.Newest(); ok && newest.Timestamp > maxTs {
		maxTs = newest.Timestamp
	}
	cutoff := maxTs - horizon.Milliseconds()

	next := make(Window, 0, len(w)+1)
	inserted := false
	for _, s := range w {
		if s.Timestamp < cutoff {
			continue
		}
		if !inserted && sample.Timestamp < s.Timestamp {
			next = append(next, sample)
			inserted = true
		}
		next = append(next, s)
	}
	if !inserted && sample.Timestamp >= cutoff {
		next = append(next, sample)
	}
	return next
}

// Oldest returns the minimum-timestamp sample still retained
func (w Window) Oldest() (models.RawSample, bool) {
	if len(w) == 0 {
		return models.RawSample{}, false
	}
	oldest := w[0]
	for _, s := range w[1:] {
		if s.Timestamp < oldest.Timestamp {
			oldest = s
		}
	}
	return oldest, true
}

// Newest returns the maximum-timestamp sample in the window
func (w Window) Newest() (models.RawSample, bool) {
	if len(w) == 0 {
		return models.RawSample{}, false
	}
	newest := w[0]
	for _, s := range w[1:] {
		if s.Timestamp > newest.Timestamp {
			newest = s
		}
	}
	return newest, true
}
