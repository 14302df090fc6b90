// Package qdrant is a minimal REST client to Qdrant, scoped to the
// operations this service needs: idempotent collection creation, point
// upsert, and delete/search filtered by video identifier.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"videorag/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Storage talks to a Qdrant collection with cosine distance.
type Storage struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Storage{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection with the given size and cosine
// distance if it does not exist yet. A concurrent creation racing this one is
// treated as success: if the PUT fails but the collection turns out to exist,
// the error is swallowed.
func (s *Storage) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	if _, err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil); err == nil {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if _, err := s.do(ctx, http.MethodPut, s.collectionPath(""), body); err != nil {
		if _, getErr := s.do(ctx, http.MethodGet, s.collectionPath(""), nil); getErr == nil {
			return nil
		}
		return err
	}
	return nil
}

func (s *Storage) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	payload := make([]map[string]any, 0, len(points))
	for _, p := range points {
		payload = append(payload, map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"video_id":    p.VideoID,
				"text":        p.Text,
				"chunk_index": p.ChunkIndex,
				"video_url":   p.VideoURL,
			},
		})
	}
	body := map[string]any{"points": payload}
	_, err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body)
	return err
}

func (s *Storage) DeleteByVideo(ctx context.Context, videoID string) error {
	body := map[string]any{"filter": videoFilter(videoID)}
	_, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/delete?wait=true"), body)
	return err
}

func (s *Storage) SearchByVideo(ctx context.Context, videoID string, vector []float64, limit int) ([]domain.ScoredPoint, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"filter":       videoFilter(videoID),
	}
	data, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), body)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	results := make([]domain.ScoredPoint, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		p := domain.Point{ID: fmt.Sprintf("%v", r.ID)}
		if v, ok := r.Payload["video_id"].(string); ok {
			p.VideoID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			p.Text = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			p.ChunkIndex = int(v)
		}
		if v, ok := r.Payload["video_url"].(string); ok {
			p.VideoURL = v
		}
		results = append(results, domain.ScoredPoint{Point: p, Score: r.Score})
	}
	return results, nil
}

func videoFilter(videoID string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "video_id",
				"match": map[string]any{"value": videoID},
			},
		},
	}
}

func (s *Storage) collectionPath(suffix string) string {
	return "/collections/" + s.collection + suffix
}

func (s *Storage) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant %s %s failed: %s: %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}
