package domain

import "context"

// Chunk is one overlapping window of transcript words produced by the chunker.
type Chunk struct {
	Text       string
	StartIndex int // word offset of the chunk's first word in the transcript
}

// Point is a stored vector record for one chunk of one video.
type Point struct {
	ID         string
	Vector     []float64
	VideoID    string
	Text       string
	ChunkIndex int
	VideoURL   string
}

// ScoredPoint is a retrieved point together with its similarity score.
type ScoredPoint struct {
	Point
	Score float64
}

// TranscriptSegment is a single caption entry returned by the transcript source.
type TranscriptSegment struct {
	Text     string
	Start    float64
	Duration float64
}

// TranscriptSource fetches the transcript of a video, trying the given
// languages in priority order.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string, languages []string) ([]TranscriptSegment, error)
}

// Embedder converts a batch of texts into fixed-dimension vectors.
// The returned slice has the same length and order as the input.
type Embedder interface {
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Completer produces a chat-style completion for a system instruction and a
// user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
