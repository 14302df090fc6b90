package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videorag/internal/domain"
)

func TestEnsureCollectionIdempotent(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 3))
	require.NoError(t, s.EnsureCollection(ctx, 3))
	assert.Error(t, s.EnsureCollection(ctx, 4))
	assert.Error(t, s.EnsureCollection(ctx, 0))
}

func TestSearchFiltersByVideo(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.Point{
		{ID: "1", Vector: []float64{1, 0}, VideoID: "a", Text: "alpha"},
		{ID: "2", Vector: []float64{0, 1}, VideoID: "a", Text: "beta"},
		{ID: "3", Vector: []float64{1, 0}, VideoID: "b", Text: "gamma"},
	}))

	res, err := s.SearchByVideo(ctx, "a", []float64{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "alpha", res[0].Text)
	assert.Greater(t, res[0].Score, res[1].Score)
}

func TestSearchEmptyVideo(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))

	res, err := s.SearchByVideo(ctx, "missing", []float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDeleteByVideo(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []domain.Point{
		{ID: "1", Vector: []float64{1}, VideoID: "a"},
		{ID: "2", Vector: []float64{1}, VideoID: "b"},
	}))

	require.NoError(t, s.DeleteByVideo(ctx, "a"))
	res, err := s.SearchByVideo(ctx, "a", []float64{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = s.SearchByVideo(ctx, "b", []float64{1}, 5)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	// Unknown video deletes are a no-op.
	require.NoError(t, s.DeleteByVideo(ctx, "nope"))
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, 2))
	err := s.Upsert(ctx, []domain.Point{{ID: "1", Vector: []float64{1}, VideoID: "a"}})
	assert.Error(t, err)
}
