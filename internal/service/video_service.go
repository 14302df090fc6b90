// Package service orchestrates the ingest and question-answering flows.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"videorag/internal/answer"
	"videorag/internal/chunker"
	"videorag/internal/domain"
	"videorag/internal/videoid"
)

// VideoIndex is the service-facing subset of the index orchestrator.
type VideoIndex interface {
	ReplaceVideo(ctx context.Context, videoID string, chunks []domain.Chunk, vectors [][]float64, videoURL string) error
	QueryByVideo(ctx context.Context, videoID string, vector []float64, topK int) ([]domain.ScoredPoint, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

// ProcessResult reports what an ingest produced.
type ProcessResult struct {
	VideoID          string
	ChunksCreated    int
	TranscriptLength int
}

// AskResult is an answer together with the chunks that grounded it.
type AskResult struct {
	Answer string
	Chunks []string
}

// VideoService wires the collaborators: transcript source, chunker, embedder,
// index orchestrator, and answer composer. All are injected at construction.
type VideoService struct {
	transcripts domain.TranscriptSource
	chunker     *chunker.WordChunker
	embedder    domain.Embedder
	index       VideoIndex
	composer    *answer.Composer
	languages   []string
	topK        int
	log         *slog.Logger
}

type Options struct {
	Transcripts domain.TranscriptSource
	Chunker     *chunker.WordChunker
	Embedder    domain.Embedder
	Index       VideoIndex
	Composer    *answer.Composer
	Languages   []string
	TopK        int
	Logger      *slog.Logger
}

func New(opts Options) *VideoService {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &VideoService{
		transcripts: opts.Transcripts,
		chunker:     opts.Chunker,
		embedder:    opts.Embedder,
		index:       opts.Index,
		composer:    opts.Composer,
		languages:   opts.Languages,
		topK:        opts.TopK,
		log:         opts.Logger,
	}
}

// ProcessVideo fetches the video's transcript, chunks and embeds it, and
// replaces the video's stored points with the new chunk set.
func (s *VideoService) ProcessVideo(ctx context.Context, videoURL string) (ProcessResult, error) {
	videoID, err := videoid.Resolve(videoURL)
	if err != nil {
		return ProcessResult{}, err
	}

	segments, err := s.transcripts.Fetch(ctx, videoID, s.languages)
	if err != nil {
		return ProcessResult{}, err
	}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Text)
	}
	transcript := strings.Join(texts, " ")
	if strings.TrimSpace(transcript) == "" {
		return ProcessResult{}, fmt.Errorf("%w: transcript is empty", domain.ErrTranscriptUnavailable)
	}

	chunks, err := s.chunker.Chunk(transcript)
	if err != nil {
		return ProcessResult{}, err
	}
	if len(chunks) == 0 {
		return ProcessResult{}, fmt.Errorf("%w: no chunks produced from transcript", domain.ErrTranscriptUnavailable)
	}

	chunkTexts := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkTexts[i] = ch.Text
	}
	vectors, err := s.embedder.Embed(ctx, chunkTexts)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("embed chunks: %w", err)
	}

	if err := s.index.ReplaceVideo(ctx, videoID, chunks, vectors, videoURL); err != nil {
		return ProcessResult{}, err
	}

	s.log.Info("video processed",
		"video_id", videoID,
		"chunks", len(chunks),
		"transcript_length", len(transcript))

	return ProcessResult{
		VideoID:          videoID,
		ChunksCreated:    len(chunks),
		TranscriptLength: len(transcript),
	}, nil
}

// Ask answers a question about a previously processed video using its most
// similar stored chunks. A video with no stored chunks yields
// domain.ErrNotFound.
func (s *VideoService) Ask(ctx context.Context, videoURL, question string) (AskResult, error) {
	videoID, err := videoid.Resolve(videoURL)
	if err != nil {
		return AskResult{}, err
	}

	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return AskResult{}, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return AskResult{}, fmt.Errorf("embed question: expected 1 vector, got %d", len(vectors))
	}

	points, err := s.index.QueryByVideo(ctx, videoID, vectors[0], s.topK)
	if err != nil {
		return AskResult{}, err
	}
	if len(points) == 0 {
		return AskResult{}, fmt.Errorf("%w: no content found for this video, process the video first", domain.ErrNotFound)
	}

	chunks := make([]string, len(points))
	for i, p := range points {
		chunks[i] = p.Text
	}
	reply, err := s.composer.Compose(ctx, question, chunks)
	if err != nil {
		return AskResult{}, err
	}

	s.log.Info("question answered", "video_id", videoID, "chunks_used", len(chunks))
	return AskResult{Answer: reply, Chunks: chunks}, nil
}

// DeleteVideo removes all stored content for the identifier. Unknown
// identifiers succeed silently.
func (s *VideoService) DeleteVideo(ctx context.Context, videoID string) error {
	if err := s.index.DeleteVideo(ctx, videoID); err != nil {
		return err
	}
	s.log.Info("video deleted", "video_id", videoID)
	return nil
}
