package vectorstore

import (
	"context"

	"videorag/internal/domain"
)

// Store persists vector points partitioned by video identifier and supports
// filtered similarity search.
type Store interface {
	// EnsureCollection idempotently guarantees the backing collection exists
	// with the given dimensionality and cosine distance.
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert inserts the given points.
	Upsert(ctx context.Context, points []domain.Point) error
	// DeleteByVideo removes every point whose video_id matches. Deleting a
	// video with no points succeeds.
	DeleteByVideo(ctx context.Context, videoID string) error
	// SearchByVideo returns up to limit points for the video, ranked by
	// descending cosine similarity to the query vector.
	SearchByVideo(ctx context.Context, videoID string, vector []float64, limit int) ([]domain.ScoredPoint, error)
}
