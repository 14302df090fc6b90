package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videorag/internal/domain"
)

func TestEnsureCollectionCreatesWhenMissing(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/videos":
			if created {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut && r.URL.Path == "/collections/videos":
			var body struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 384, body.Vectors.Size)
			assert.Equal(t, "Cosine", body.Vectors.Distance)
			created = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	require.NoError(t, s.EnsureCollection(context.Background(), 384))
	assert.True(t, created)

	// Second call sees the existing collection and does not recreate it.
	require.NoError(t, s.EnsureCollection(context.Background(), 384))
}

func TestEnsureCollectionToleratesCreateRace(t *testing.T) {
	gets := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			if gets == 1 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			// Another caller won the creation race.
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	require.NoError(t, s.EnsureCollection(context.Background(), 384))
}

func TestDeleteByVideoSendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/videos/points/delete", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		var body struct {
			Filter struct {
				Must []struct {
					Key   string `json:"key"`
					Match struct {
						Value string `json:"value"`
					} `json:"match"`
				} `json:"must"`
			} `json:"filter"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Filter.Must, 1)
		assert.Equal(t, "video_id", body.Filter.Must[0].Key)
		assert.Equal(t, "abc123", body.Filter.Must[0].Match.Value)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	require.NoError(t, s.DeleteByVideo(context.Background(), "abc123"))
}

func TestUpsertSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/videos/points", r.URL.Path)
		var body struct {
			Points []struct {
				ID      string         `json:"id"`
				Vector  []float64      `json:"vector"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Points, 1)
		p := body.Points[0]
		assert.Equal(t, "pid", p.ID)
		assert.Equal(t, []float64{0.5, 0.25}, p.Vector)
		assert.Equal(t, "abc123", p.Payload["video_id"])
		assert.Equal(t, "hello world", p.Payload["text"])
		assert.Equal(t, float64(0), p.Payload["chunk_index"])
		assert.Equal(t, "https://youtu.be/abc123", p.Payload["video_url"])
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	err := s.Upsert(context.Background(), []domain.Point{{
		ID:       "pid",
		Vector:   []float64{0.5, 0.25},
		VideoID:  "abc123",
		Text:     "hello world",
		VideoURL: "https://youtu.be/abc123",
	}})
	require.NoError(t, err)
}

func TestSearchByVideoParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/videos/points/search", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["limit"])
		assert.Equal(t, true, body["with_payload"])
		assert.NotNil(t, body["filter"])
		w.Write([]byte(`{"result":[
			{"id":"p1","score":0.9,"payload":{"video_id":"abc123","text":"first","chunk_index":0,"video_url":"u"}},
			{"id":"p2","score":0.7,"payload":{"video_id":"abc123","text":"second","chunk_index":3,"video_url":"u"}}
		]}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	res, err := s.SearchByVideo(context.Background(), "abc123", []float64{1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "first", res[0].Text)
	assert.Equal(t, 0.9, res[0].Score)
	assert.Equal(t, 3, res[1].ChunkIndex)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, `{"status":{"error":"bad vector"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "videos"})
	err := s.DeleteByVideo(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad vector")
}
