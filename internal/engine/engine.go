package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/spatial"
)

// Config holds the engine's tunable thresholds. The numeric values are
// deployment configuration, not constants of the algorithm.
type Config struct {
	// MovementRadiusMeters is the displacement across the recent window
	// beyond which the user is classified as moving
	MovementRadiusMeters float64

	// SuddenJumpMeters is the displacement from the open journey's last
	// known point beyond which continuity cannot be trusted
	SuddenJumpMeters float64

	// StaleGap is the silence after the open journey's last mutation beyond
	// which continuity cannot be trusted
	StaleGap time.Duration

	// WindowHorizon bounds the recent-sample window by time
	WindowHorizon time.Duration

	// CacheCapacity bounds the number of users held in the in-memory cache
	CacheCapacity int

	// StoreTimeout bounds every durable read/write
	StoreTimeout time.Duration
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		MovementRadiusMeters: 50,
		SuddenJumpMeters:     5000,
		StaleGap:             5 * time.Minute,
		WindowHorizon:        5 * time.Minute,
		CacheCapacity:        1024,
		StoreTimeout:         5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MovementRadiusMeters <= 0 {
		c.MovementRadiusMeters = d.MovementRadiusMeters
	}
	if c.SuddenJumpMeters <= 0 {
		c.SuddenJumpMeters = d.SuddenJumpMeters
	}
	if c.StaleGap <= 0 {
		c.StaleGap = d.StaleGap
	}
	if c.WindowHorizon <= 0 {
		c.WindowHorizon = d.WindowHorizon
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = d.CacheCapacity
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = d.StoreTimeout
	}
	return c
}

// MutationKind constants
const (
	MutationCreated = "CREATED"
	MutationUpdated = "UPDATED"
	MutationNoOp    = "NOOP"
)

// Mutation is the durable outcome of processing one sample
type Mutation struct {
	Kind      string                  `json:"kind"` // CREATED, UPDATED, NOOP
	Journey   *models.LocationJourney `json:"journey,omitempty"`
	JourneyID string                  `json:"journey_id,omitempty"`
	Patch     *models.JourneyPatch    `json:"patch,omitempty"`
}

// MetricsRecorder receives engine events. Implementations must be safe for
// concurrent use.
type MetricsRecorder interface {
	RecordSample(result string)
	RecordJourneyCreated(journeyType string)
	RecordJourneyMerged()
	RecordCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordSample(string)         {}
func (nopRecorder) RecordJourneyCreated(string) {}
func (nopRecorder) RecordJourneyMerged()        {}
func (nopRecorder) RecordCacheLookup(bool)      {}

// Engine turns a stream of raw GPS samples into a compact timeline of
// alternating STEADY and MOVING journeys. Processing is serialized per user
// and fully parallel across users.
type Engine struct {
	cfg      Config
	journeys JourneyStore
	samples  RecentSampleStore
	cache    *Cache
	metrics  MetricsRecorder

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates an engine over the given stores
func New(cfg Config, journeys JourneyStore, samples RecentSampleStore, metrics MetricsRecorder) (*Engine, error) {
	cfg = cfg.withDefaults()

	cache, err := NewCache(cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}

	return &Engine{
		cfg:       cfg,
		journeys:  journeys,
		samples:   samples,
		cache:     cache,
		metrics:   metrics,
		userLocks: make(map[string]*sync.Mutex),
	}, nil
}

// ProcessSample runs one sample through the decision engine and persists the
// outcome. Errors are local to this call: either the journey write fully
// succeeds or nothing changes, and the cache is only refreshed after a
// successful write.
func (e *Engine) ProcessSample(ctx context.Context, sample models.RawSample) (*Mutation, error) {
	if err := validateSample(sample); err != nil {
		e.metrics.RecordSample("rejected")
		return nil, err
	}

	unlock := e.lockUser(sample.UserID)
	defer unlock()

	entry, err := e.loadEntry(ctx, sample.UserID)
	if err != nil {
		e.metrics.RecordSample("error")
		return nil, err
	}

	if err := checkMonotonic(entry, sample); err != nil {
		e.metrics.RecordSample("rejected")
		return nil, err
	}

	// Classify against the window as it stood before this sample; a cold
	// start with no retained samples keeps the last known state.
	state := Classify(entry.Window, sample, lastMotionState(entry.LastJourney), e.cfg.MovementRadiusMeters)

	newWindow := entry.Window.Append(sample, e.cfg.WindowHorizon)
	if err := e.saveWindow(ctx, sample.UserID, newWindow); err != nil {
		e.metrics.RecordSample("error")
		return nil, err
	}

	mutation := e.decide(entry, sample, state)

	switch mutation.Kind {
	case MutationCreated:
		if err := e.createJourney(ctx, mutation.Journey); err != nil {
			e.metrics.RecordSample("error")
			return nil, err
		}
		e.metrics.RecordJourneyCreated(mutation.Journey.Type)
	case MutationUpdated:
		if err := e.updateJourney(ctx, mutation.JourneyID, mutation.Patch); err != nil {
			e.metrics.RecordSample("error")
			return nil, err
		}
		e.metrics.RecordJourneyMerged()
	}

	e.refreshCache(entry, mutation, newWindow, sample.UserID)
	e.metrics.RecordSample(resultLabel(mutation.Kind))

	return mutation, nil
}

// openState tags the engine's per-user position in the state machine,
// derived from the open journey
type openState int

const (
	stateNoHistory openState = iota
	stateSteadyOpen
	stateMovingOpen
)

func openStateOf(open *models.LocationJourney) openState {
	switch {
	case open == nil:
		return stateNoHistory
	case open.IsMoving():
		return stateMovingOpen
	default:
		return stateSteadyOpen
	}
}

// decide implements the transition table. It is pure: all I/O happens in
// ProcessSample around it.
func (e *Engine) decide(entry *CacheEntry, sample models.RawSample, state models.MotionState) *Mutation {
	open := entry.LastJourney

	// NO_HISTORY: anchor the timeline at the first sample
	if openStateOf(open) == stateNoHistory {
		return &Mutation{Kind: MutationCreated, Journey: newSteadyJourney(sample)}
	}

	// Discontinuity: a long silence or a teleport-scale jump means the motion
	// history cannot be trusted to connect to the open journey. Abandon
	// continuity and re-anchor with a single fresh dwell, even when the time
	// gap and the jump fire together.
	gap := sample.Timestamp - open.UpdateAt
	lastLat, lastLon := open.LastKnownPoint()
	jump := spatial.DistanceMeters(lastLat, lastLon, sample.Latitude, sample.Longitude)
	if gap > e.cfg.StaleGap.Milliseconds() || jump > e.cfg.SuddenJumpMeters {
		log.Printf("[JourneyEngine] Discontinuity for user %s (gap=%dms, jump=%.0fm), re-anchoring", sample.UserID, gap, jump)
		return &Mutation{Kind: MutationCreated, Journey: newSteadyJourney(sample)}
	}

	if openStateOf(open) == stateSteadyOpen {
		if state == models.MotionSteady {
			// Continuing dwell is not a new fact
			return &Mutation{Kind: MutationNoOp}
		}
		// The user left the dwell: open a transit from its anchor
		return &Mutation{Kind: MutationCreated, Journey: newMovingJourney(open, sample)}
	}

	// MOVING_OPEN
	if state == models.MotionMoving {
		// Still in transit: merge into the open journey instead of writing a
		// near-duplicate row per sample
		return &Mutation{Kind: MutationUpdated, JourneyID: open.ID, Patch: mergePatch(open, sample)}
	}

	// Came to rest: the transit row stays immutable with its final endpoint
	return &Mutation{Kind: MutationCreated, Journey: newSteadyJourney(sample)}
}

// newSteadyJourney anchors a dwell at the sample
func newSteadyJourney(sample models.RawSample) *models.LocationJourney {
	return &models.LocationJourney{
		ID:            uuid.NewString(),
		UserID:        sample.UserID,
		Type:          models.JourneyTypeSteady,
		FromLatitude:  sample.Latitude,
		FromLongitude: sample.Longitude,
		CreatedAt:     sample.Timestamp,
		UpdateAt:      sample.Timestamp,
	}
}

// newMovingJourney opens a transit from the previous dwell's anchor to the
// sample. The route duration is measured from the dwell's start, so a later
// merge continues the same clock.
func newMovingJourney(steady *models.LocationJourney, sample models.RawSample) *models.LocationJourney {
	toLat, toLon := sample.Latitude, sample.Longitude
	distance := spatial.DistanceMeters(steady.FromLatitude, steady.FromLongitude, toLat, toLon)
	duration := sample.Timestamp - steady.CreatedAt

	return &models.LocationJourney{
		ID:            uuid.NewString(),
		UserID:        sample.UserID,
		Type:          models.JourneyTypeMoving,
		FromLatitude:  steady.FromLatitude,
		FromLongitude: steady.FromLongitude,
		ToLatitude:    &toLat,
		ToLongitude:   &toLon,
		RouteDistance: &distance,
		RouteDuration: &duration,
		CreatedAt:     sample.Timestamp,
		UpdateAt:      sample.Timestamp,
	}
}

// mergePatch advances the open transit's endpoint. Distance is recomputed
// from the anchor; duration accumulates across merges.
func mergePatch(open *models.LocationJourney, sample models.RawSample) *models.JourneyPatch {
	var prevDuration int64
	if open.RouteDuration != nil {
		prevDuration = *open.RouteDuration
	}

	return &models.JourneyPatch{
		ToLatitude:              sample.Latitude,
		ToLongitude:             sample.Longitude,
		RouteDistance:           spatial.DistanceMeters(open.FromLatitude, open.FromLongitude, sample.Latitude, sample.Longitude),
		RouteDuration:           prevDuration + (sample.Timestamp - open.UpdateAt),
		CurrentLocationDuration: sample.Timestamp - open.CreatedAt,
		UpdateAt:                sample.Timestamp,
	}
}

// refreshCache installs the post-decision snapshot. Best effort: losing it
// only costs a cold read on the next sample, never correctness.
func (e *Engine) refreshCache(entry *CacheEntry, mutation *Mutation, window Window, userID string) {
	next := &CacheEntry{
		LastJourney:       entry.LastJourney,
		LastMovingJourney: entry.LastMovingJourney,
		Window:            window,
	}

	switch mutation.Kind {
	case MutationCreated:
		next.LastJourney = mutation.Journey
		if mutation.Journey.IsMoving() {
			next.LastMovingJourney = mutation.Journey
		}
	case MutationUpdated:
		patched := *entry.LastJourney
		mutation.Patch.Apply(&patched)
		next.LastJourney = &patched
		next.LastMovingJourney = &patched
	}

	e.cache.Put(userID, next)
}

// loadEntry returns the user's cached snapshot, hydrating all three fields
// from the stores on a miss so the decision always sees a consistent view
func (e *Engine) loadEntry(ctx context.Context, userID string) (*CacheEntry, error) {
	if entry, ok := e.cache.Get(userID); ok {
		e.metrics.RecordCacheLookup(true)
		return entry, nil
	}
	e.metrics.RecordCacheLookup(false)

	sctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	last, err := e.journeys.GetLastJourney(sctx, userID)
	if err != nil {
		return nil, storeErr("get last journey", err)
	}
	lastMoving, err := e.journeys.GetLastMovingJourney(sctx, userID)
	if err != nil {
		return nil, storeErr("get last moving journey", err)
	}
	samples, err := e.samples.GetWindow(sctx, userID)
	if err != nil {
		return nil, storeErr("get recent window", err)
	}

	return &CacheEntry{
		LastJourney:       last,
		LastMovingJourney: lastMoving,
		Window:            Window(samples),
	}, nil
}

func (e *Engine) saveWindow(ctx context.Context, userID string, window Window) error {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	if err := e.samples.SaveWindow(sctx, userID, window); err != nil {
		return storeErr("save recent window", err)
	}
	return nil
}

func (e *Engine) createJourney(ctx context.Context, journey *models.LocationJourney) error {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	if err := e.journeys.CreateJourney(sctx, journey); err != nil {
		return storeErr("create journey", err)
	}
	return nil
}

func (e *Engine) updateJourney(ctx context.Context, id string, patch *models.JourneyPatch) error {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	if err := e.journeys.UpdateJourney(sctx, id, patch); err != nil {
		return storeErr("update journey", err)
	}
	return nil
}

// lockUser serializes processing for one user; different users proceed in
// parallel
func (e *Engine) lockUser(userID string) func() {
	e.mu.Lock()
	l, ok := e.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[userID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func validateSample(s models.RawSample) error {
	if s.UserID == "" {
		return invalidSamplef("missing user id")
	}
	if !spatial.ValidCoordinate(s.Latitude, s.Longitude) {
		return invalidSamplef("coordinates out of range: (%v, %v)", s.Latitude, s.Longitude)
	}
	if s.Timestamp <= 0 {
		return invalidSamplef("non-positive timestamp %d", s.Timestamp)
	}
	return nil
}

// checkMonotonic rejects out-of-order delivery for the user: a sample must be
// newer than the open journey's last mutation, otherwise accepting it would
// corrupt the timeline's total order. The rolling window is deliberately not
// consulted so that a sample whose journey write failed stays retryable after
// its window write already went through.
func checkMonotonic(entry *CacheEntry, sample models.RawSample) error {
	if entry.LastJourney != nil && sample.Timestamp <= entry.LastJourney.UpdateAt {
		return staleSamplef("sample at %d is not after open journey mutation at %d", sample.Timestamp, entry.LastJourney.UpdateAt)
	}
	return nil
}

// lastMotionState derives the classifier's prior from the open journey
func lastMotionState(open *models.LocationJourney) models.MotionState {
	if open != nil && open.IsMoving() {
		return models.MotionMoving
	}
	return models.MotionSteady
}

func resultLabel(kind string) string {
	switch kind {
	case MutationCreated:
		return "created"
	case MutationUpdated:
		return "updated"
	default:
		return "noop"
	}
}
