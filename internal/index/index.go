// Package index keeps the vector collection's contents for each video
// consistent with the latest ingest and answers similarity queries scoped to
// one video.
package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"videorag/internal/domain"
	"videorag/internal/vectorstore"
)

// DefaultTopK is the number of points returned by QueryByVideo when the
// caller does not specify a limit.
const DefaultTopK = 5

// Index orchestrates the per-video lifecycle of stored points on top of a
// vector store. Mutations for the same video identifier are serialized with
// a per-identifier lock so that two ingests of one video cannot interleave
// their delete and insert steps.
type Index struct {
	store     vectorstore.Store
	dimension int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store vectorstore.Store, dimension int) *Index {
	return &Index{
		store:     store,
		dimension: dimension,
		locks:     make(map[string]*sync.Mutex),
	}
}

// EnsureCollection idempotently creates the backing collection.
func (x *Index) EnsureCollection(ctx context.Context) error {
	return x.store.EnsureCollection(ctx, x.dimension)
}

// ReplaceVideo deletes every stored point for the video and inserts one point
// per (chunk, vector) pair with a fresh unique id. The two steps are not
// transactional: a failure after the delete leaves the video with no points
// and the caller must re-ingest.
func (x *Index) ReplaceVideo(ctx context.Context, videoID string, chunks []domain.Chunk, vectors [][]float64, videoURL string) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	unlock := x.lockVideo(videoID)
	defer unlock()

	if err := x.store.DeleteByVideo(ctx, videoID); err != nil {
		return fmt.Errorf("delete existing points for %s: %w", videoID, err)
	}
	points := make([]domain.Point, len(chunks))
	for i, ch := range chunks {
		points[i] = domain.Point{
			ID:         uuid.NewString(),
			Vector:     vectors[i],
			VideoID:    videoID,
			Text:       ch.Text,
			ChunkIndex: i,
			VideoURL:   videoURL,
		}
	}
	if err := x.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upsert points for %s: %w", videoID, err)
	}
	return nil
}

// QueryByVideo returns up to topK points for the video ranked by descending
// cosine similarity. A video with no stored points yields an empty result.
func (x *Index) QueryByVideo(ctx context.Context, videoID string, vector []float64, topK int) ([]domain.ScoredPoint, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return x.store.SearchByVideo(ctx, videoID, vector, topK)
}

// DeleteVideo removes all points for the video. Deleting an unknown video
// succeeds silently.
func (x *Index) DeleteVideo(ctx context.Context, videoID string) error {
	unlock := x.lockVideo(videoID)
	defer unlock()
	return x.store.DeleteByVideo(ctx, videoID)
}

func (x *Index) lockVideo(videoID string) func() {
	x.mu.Lock()
	l, ok := x.locks[videoID]
	if !ok {
		l = &sync.Mutex{}
		x.locks[videoID] = l
	}
	x.mu.Unlock()
	l.Lock()
	return l.Unlock
}
