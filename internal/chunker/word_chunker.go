package chunker

import (
	"fmt"
	"strings"

	"videorag/internal/domain"
)

// Default window parameters, in words.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// WordChunker splits text into fixed-size overlapping word windows.
type WordChunker struct {
	chunkSize int
	overlap   int
}

// NewWordChunker creates a chunker with the given window size and overlap,
// both counted in whitespace-separated words. Zero values select the
// defaults.
func NewWordChunker(chunkSize, overlap int) *WordChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits text on whitespace and produces one chunk per stride step of
// chunkSize-overlap words. Each chunk records the word offset of its first
// word. Consecutive chunks share overlap words; the final chunk may be
// shorter than chunkSize.
func (c *WordChunker) Chunk(text string) ([]domain.Chunk, error) {
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrConfiguration, c.overlap, c.chunkSize)
	}
	words := strings.Fields(text)
	stride := c.chunkSize - c.overlap
	var chunks []domain.Chunk
	for i := 0; i < len(words); i += stride {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Text:       strings.Join(words[i:end], " "),
			StartIndex: i,
		})
		// Once a window reaches the end, any further window would only
		// repeat words already covered by the overlap.
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}
