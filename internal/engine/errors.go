package engine

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. All errors are local to a single ProcessSample call:
// they never leave the cache partially updated and are never fatal to the
// hosting process.
var (
	// ErrInvalidSample marks samples with unusable coordinates or timestamps.
	// The sample is rejected and nothing changes.
	ErrInvalidSample = errors.New("invalid sample")

	// ErrStaleSample marks out-of-order delivery: the sample's timestamp is
	// not after the open journey's last mutation. Accepting it would corrupt
	// the timeline's monotonicity.
	ErrStaleSample = fmt.Errorf("%w: stale timestamp", ErrInvalidSample)

	// ErrStoreUnavailable marks a failed or timed-out durable read/write.
	// The caller decides whether to retry the whole sample later.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// invalidSamplef builds an ErrInvalidSample with detail
func invalidSamplef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidSample, fmt.Sprintf(format, args...))
}

// staleSamplef builds an ErrStaleSample with detail
func staleSamplef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrStaleSample, fmt.Sprintf(format, args...))
}

// storeErr wraps a store failure so callers can match ErrStoreUnavailable
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
