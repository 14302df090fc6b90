package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videorag/internal/domain"
)

const sampleTranscript = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">hello there</text>
  <text start="2.5" dur="3.0">general &amp; specific</text>
</transcript>`

func TestFetchDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("v"))
		if r.URL.Query().Get("lang") == "en" {
			w.Write([]byte(sampleTranscript))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	segments, err := c.Fetch(context.Background(), "abc123", []string{"en", "en-US"})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "hello there", segments[0].Text)
	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, 2.5, segments[0].Duration)
	assert.Equal(t, "general & specific", segments[1].Text)
}

func TestFetchTriesLanguagesInOrder(t *testing.T) {
	var langs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if lang != "" {
			langs = append(langs, lang)
		}
		if lang == "en-GB" {
			w.Write([]byte(sampleTranscript))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch(context.Background(), "abc123", []string{"en", "en-US", "en-GB"})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "en-US", "en-GB"}, langs)
}

func TestFetchFallsBackToTrackList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("type") == "list":
			w.Write([]byte(`<transcript_list><track id="0" lang_code="en-IE"/></transcript_list>`))
		case q.Get("lang") == "en-IE":
			w.Write([]byte(sampleTranscript))
		default:
			// Direct fetches for the preferred languages all miss.
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	segments, err := c.Fetch(context.Background(), "abc123", []string{"en", "en-US"})
	require.NoError(t, err)
	assert.Len(t, segments, 2)
}

func TestFetchAllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch(context.Background(), "abc123", nil)
	assert.ErrorIs(t, err, domain.ErrTranscriptUnavailable)
}

func TestFetchEmptyBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// YouTube answers 200 with an empty body for unknown tracks.
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch(context.Background(), "abc123", nil)
	assert.ErrorIs(t, err, domain.ErrTranscriptUnavailable)
}
