package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukit/journeys-backend-go/internal/models"
)

func TestSampleRepositorySaveAndGet(t *testing.T) {
	repo := NewSampleRepository(openTestDB(t))
	ctx := context.Background()

	window := []models.RawSample{
		{UserID: "u1", Latitude: 10, Longitude: 10, Timestamp: 1000},
		{UserID: "u1", Latitude: 10.0005, Longitude: 10, Timestamp: 2000},
	}
	require.NoError(t, repo.SaveWindow(ctx, "u1", window))

	got, err := repo.GetWindow(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, window, got)
}

func TestSampleRepositorySaveReplacesWindow(t *testing.T) {
	repo := NewSampleRepository(openTestDB(t))
	ctx := context.Background()

	first := []models.RawSample{{UserID: "u1", Latitude: 10, Longitude: 10, Timestamp: 1000}}
	require.NoError(t, repo.SaveWindow(ctx, "u1", first))

	second := []models.RawSample{
		{UserID: "u1", Latitude: 10.0005, Longitude: 10, Timestamp: 2000},
		{UserID: "u1", Latitude: 10.0010, Longitude: 10, Timestamp: 3000},
	}
	require.NoError(t, repo.SaveWindow(ctx, "u1", second))

	got, err := repo.GetWindow(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSampleRepositoryGetWindowMissing(t *testing.T) {
	repo := NewSampleRepository(openTestDB(t))

	got, err := repo.GetWindow(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSampleRepositoryUsersIsolated(t *testing.T) {
	repo := NewSampleRepository(openTestDB(t))
	ctx := context.Background()

	a := []models.RawSample{{UserID: "a", Latitude: 1, Longitude: 1, Timestamp: 1000}}
	b := []models.RawSample{{UserID: "b", Latitude: 2, Longitude: 2, Timestamp: 2000}}
	require.NoError(t, repo.SaveWindow(ctx, "a", a))
	require.NoError(t, repo.SaveWindow(ctx, "b", b))

	gotA, err := repo.GetWindow(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, a, gotA)

	gotB, err := repo.GetWindow(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, b, gotB)
}
