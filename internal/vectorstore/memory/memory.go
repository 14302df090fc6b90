package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"videorag/internal/domain"
)

// Storage is an in-process vector store using brute-force cosine similarity.
// It is intended for local development and tests.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	points    []domain.Point
}

func NewStorage() *Storage { return &Storage{} }

// EnsureCollection fixes the vector dimensionality. Calling it again with the
// same dimension is a no-op.
func (s *Storage) EnsureCollection(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != dimension {
		return errors.New("collection already exists with a different dimension")
	}
	s.dimension = dimension
	return nil
}

func (s *Storage) Upsert(_ context.Context, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.points = append(s.points, points...)
	return nil
}

func (s *Storage) DeleteByVideo(_ context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.points[:0]
	for _, p := range s.points {
		if p.VideoID != videoID {
			kept = append(kept, p)
		}
	}
	s.points = kept
	return nil
}

func (s *Storage) SearchByVideo(_ context.Context, videoID string, vector []float64, limit int) ([]domain.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 5
	}
	var scored []domain.ScoredPoint
	for _, p := range s.points {
		if p.VideoID != videoID {
			continue
		}
		scored = append(scored, domain.ScoredPoint{Point: p, Score: cosine(p.Vector, vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit], nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
