package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukit/journeys-backend-go/internal/engine"
	"github.com/harukit/journeys-backend-go/internal/middleware"
	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/service"
)

// stubStores keeps everything in memory and optionally fails every call
type stubStores struct {
	journeys map[string]*models.LocationJourney
	windows  map[string][]models.RawSample
	down     bool
}

var errDown = errors.New("down")

func newStubStores() *stubStores {
	return &stubStores{
		journeys: make(map[string]*models.LocationJourney),
		windows:  make(map[string][]models.RawSample),
	}
}

func (s *stubStores) CreateJourney(_ context.Context, j *models.LocationJourney) error {
	if s.down {
		return errDown
	}
	clone := *j
	s.journeys[j.UserID] = &clone
	return nil
}

func (s *stubStores) UpdateJourney(_ context.Context, id string, patch *models.JourneyPatch) error {
	if s.down {
		return errDown
	}
	for _, j := range s.journeys {
		if j.ID == id {
			patch.Apply(j)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *stubStores) GetLastJourney(_ context.Context, userID string) (*models.LocationJourney, error) {
	if s.down {
		return nil, errDown
	}
	return s.journeys[userID], nil
}

func (s *stubStores) GetLastMovingJourney(_ context.Context, userID string) (*models.LocationJourney, error) {
	if s.down {
		return nil, errDown
	}
	if j := s.journeys[userID]; j != nil && j.IsMoving() {
		return j, nil
	}
	return nil, nil
}

func (s *stubStores) SaveWindow(_ context.Context, userID string, samples []models.RawSample) error {
	if s.down {
		return errDown
	}
	s.windows[userID] = samples
	return nil
}

func (s *stubStores) GetWindow(_ context.Context, userID string) ([]models.RawSample, error) {
	if s.down {
		return nil, errDown
	}
	return s.windows[userID], nil
}

func sampleTestRouter(t *testing.T, stores *stubStores) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng, err := engine.New(engine.DefaultConfig(), stores, stores, nil)
	require.NoError(t, err)
	h := NewSampleHandler(service.NewIngestService(eng))

	r := gin.New()
	r.POST("/samples", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, "u1")
	}, h.ProcessSample)
	return r
}

func postSample(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessSampleCreated(t *testing.T) {
	r := sampleTestRouter(t, newStubStores())

	w := postSample(r, `{"latitude":10,"longitude":10,"timestamp":1700000000000}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int             `json:"code"`
		Data engine.Mutation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, engine.MutationCreated, resp.Data.Kind)
	require.NotNil(t, resp.Data.Journey)
	assert.Equal(t, "u1", resp.Data.Journey.UserID)
}

func TestProcessSampleBadPayload(t *testing.T) {
	r := sampleTestRouter(t, newStubStores())

	// Missing timestamp fails binding
	w := postSample(r, `{"latitude":10,"longitude":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postSample(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessSampleInvalidCoordinates(t *testing.T) {
	r := sampleTestRouter(t, newStubStores())

	w := postSample(r, `{"latitude":91,"longitude":10,"timestamp":1700000000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessSampleStaleConflict(t *testing.T) {
	r := sampleTestRouter(t, newStubStores())

	w := postSample(r, `{"latitude":10,"longitude":10,"timestamp":1700000060000}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Out-of-order delivery is a conflict, not a silent accept
	w = postSample(r, `{"latitude":10,"longitude":10,"timestamp":1700000000000}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProcessSampleStoreDown(t *testing.T) {
	stores := newStubStores()
	stores.down = true
	r := sampleTestRouter(t, stores)

	w := postSample(r, `{"latitude":10,"longitude":10,"timestamp":1700000000000}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
