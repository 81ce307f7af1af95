package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukit/journeys-backend-go/internal/database"
	"github.com/harukit/journeys-backend-go/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }

func steadyRow(id, userID string, createdAt int64) *models.LocationJourney {
	return &models.LocationJourney{
		ID:            id,
		UserID:        userID,
		Type:          models.JourneyTypeSteady,
		FromLatitude:  10,
		FromLongitude: 10,
		CreatedAt:     createdAt,
		UpdateAt:      createdAt,
	}
}

func movingRow(id, userID string, createdAt int64) *models.LocationJourney {
	return &models.LocationJourney{
		ID:            id,
		UserID:        userID,
		Type:          models.JourneyTypeMoving,
		FromLatitude:  10,
		FromLongitude: 10,
		ToLatitude:    ptrF(10.001),
		ToLongitude:   ptrF(10),
		RouteDistance: ptrF(111.2),
		RouteDuration: ptrI(60_000),
		CreatedAt:     createdAt,
		UpdateAt:      createdAt,
	}
}

func TestJourneyRepositoryCreateAndGetLast(t *testing.T) {
	repo := NewJourneyRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateJourney(ctx, steadyRow("j1", "u1", 1000)))
	require.NoError(t, repo.CreateJourney(ctx, movingRow("j2", "u1", 2000)))
	require.NoError(t, repo.CreateJourney(ctx, steadyRow("j3", "u1", 3000)))

	last, err := repo.GetLastJourney(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "j3", last.ID)
	assert.Equal(t, models.JourneyTypeSteady, last.Type)
	assert.Nil(t, last.ToLatitude)
	assert.Nil(t, last.RouteDistance)

	lastMoving, err := repo.GetLastMovingJourney(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, lastMoving)
	assert.Equal(t, "j2", lastMoving.ID)
	require.NotNil(t, lastMoving.ToLatitude)
	assert.Equal(t, 10.001, *lastMoving.ToLatitude)
	require.NotNil(t, lastMoving.RouteDuration)
	assert.Equal(t, int64(60_000), *lastMoving.RouteDuration)
}

func TestJourneyRepositoryGetLastNoRows(t *testing.T) {
	repo := NewJourneyRepository(openTestDB(t))
	ctx := context.Background()

	last, err := repo.GetLastJourney(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, last)

	lastMoving, err := repo.GetLastMovingJourney(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, lastMoving)
}

func TestJourneyRepositoryUpdate(t *testing.T) {
	repo := NewJourneyRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateJourney(ctx, movingRow("j1", "u1", 1000)))

	patch := &models.JourneyPatch{
		ToLatitude:              10.002,
		ToLongitude:             10,
		RouteDistance:           222.4,
		RouteDuration:           120_000,
		CurrentLocationDuration: 120_000,
		UpdateAt:                121_000,
	}
	require.NoError(t, repo.UpdateJourney(ctx, "j1", patch))

	got, err := repo.GetLastJourney(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10.002, *got.ToLatitude)
	assert.Equal(t, 222.4, *got.RouteDistance)
	assert.Equal(t, int64(120_000), *got.RouteDuration)
	assert.Equal(t, int64(121_000), got.UpdateAt)
	// created_at is immutable
	assert.Equal(t, int64(1000), got.CreatedAt)
}

func TestJourneyRepositoryUpdateMissing(t *testing.T) {
	repo := NewJourneyRepository(openTestDB(t))

	err := repo.UpdateJourney(context.Background(), "missing", &models.JourneyPatch{UpdateAt: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestJourneyRepositoryGetJourneys(t *testing.T) {
	repo := NewJourneyRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateJourney(ctx, steadyRow("j1", "u1", 1000)))
	require.NoError(t, repo.CreateJourney(ctx, movingRow("j2", "u1", 2000)))
	require.NoError(t, repo.CreateJourney(ctx, steadyRow("j3", "u1", 3000)))
	require.NoError(t, repo.CreateJourney(ctx, steadyRow("other", "u2", 1500)))

	tests := []struct {
		name      string
		filter    models.JourneyFilter
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "All For User Newest First",
			filter:    models.JourneyFilter{UserID: "u1"},
			wantIDs:   []string{"j3", "j2", "j1"},
			wantTotal: 3,
		},
		{
			name:      "Filter By Type",
			filter:    models.JourneyFilter{UserID: "u1", Type: models.JourneyTypeMoving},
			wantIDs:   []string{"j2"},
			wantTotal: 1,
		},
		{
			name:      "Time Range",
			filter:    models.JourneyFilter{UserID: "u1", StartTime: 1500, EndTime: 2500},
			wantIDs:   []string{"j2"},
			wantTotal: 1,
		},
		{
			name:      "Pagination",
			filter:    models.JourneyFilter{UserID: "u1", Page: 2, PageSize: 2},
			wantIDs:   []string{"j1"},
			wantTotal: 3,
		},
		{
			name:      "Other User Isolated",
			filter:    models.JourneyFilter{UserID: "u2"},
			wantIDs:   []string{"other"},
			wantTotal: 1,
		},
		{
			name:      "No Matches",
			filter:    models.JourneyFilter{UserID: "u1", StartTime: 9000},
			wantIDs:   nil,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journeys, total, err := repo.GetJourneys(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			var ids []string
			for _, j := range journeys {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
