// Package server exposes the video Q&A service over HTTP with JSON bodies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"videorag/internal/domain"
	"videorag/internal/service"
)

// VideoQA is the server-facing subset of the video service.
type VideoQA interface {
	ProcessVideo(ctx context.Context, videoURL string) (service.ProcessResult, error)
	Ask(ctx context.Context, videoURL, question string) (service.AskResult, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

// Server routes the HTTP surface: ingest, ask, delete, health, banner.
type Server struct {
	svc            VideoQA
	log            *slog.Logger
	allowedOrigins []string
}

func New(svc VideoQA, log *slog.Logger, allowedOrigins []string) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, log: log, allowedOrigins: allowedOrigins}
}

// Handler builds the route table wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /process-video", s.handleProcessVideo)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("DELETE /video/{video_id}", s.handleDeleteVideo)
	return s.logRequests(s.cors(mux))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Video Q&A RAG System API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":          "healthy",
		"qdrant":          "connected",
		"embedding_model": "loaded",
	})
}

type videoRequest struct {
	VideoURL string `json:"video_url"`
}

type questionRequest struct {
	VideoURL string `json:"video_url"`
	Question string `json:"question"`
}

func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.ProcessVideo(r.Context(), req.VideoURL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "Video processed successfully",
		"video_id":          res.VideoID,
		"chunks_created":    res.ChunksCreated,
		"transcript_length": res.TranscriptLength,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.Ask(r.Context(), req.VideoURL, req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":          res.Answer,
		"relevant_chunks": res.Chunks,
	})
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	if err := s.svc.DeleteVideo(r.Context(), videoID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Video %s deleted successfully", videoID),
	})
}

// writeError maps the error taxonomy onto status codes: domain errors are
// 400, missing content is 404, everything else is 500 with the underlying
// message kept for diagnosis.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrTranscriptUnavailable),
		errors.Is(err, domain.ErrConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeErrorMessage(w, status, err.Error())
}

func writeErrorMessage(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
