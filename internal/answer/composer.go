// Package answer builds grounding prompts from retrieved transcript chunks
// and delegates to the completion collaborator.
package answer

import (
	"context"
	"fmt"
	"strings"

	"videorag/internal/domain"
)

const systemPrompt = "You are a helpful assistant that answers questions about video content based on provided transcripts."

const promptTemplate = `You are a helpful assistant that answers questions about video content.

Context from the video transcript:
%s

Question: %s

Please provide a clear, concise answer based on the context provided. If the context doesn't contain enough information to answer the question, say so.`

// Composer turns a question and its supporting chunks into a completion.
type Composer struct {
	completer domain.Completer
}

func NewComposer(completer domain.Completer) *Composer {
	return &Composer{completer: completer}
}

// BuildPrompt assembles the grounding prompt: the chunks concatenated with
// blank-line separators in the order received, followed by the question.
func BuildPrompt(question string, chunks []string) string {
	grounding := strings.Join(chunks, "\n\n")
	return fmt.Sprintf(promptTemplate, grounding, question)
}

// Compose asks the completion collaborator to answer the question from the
// given chunks and returns its reply verbatim. Collaborator failures
// propagate unchanged; there is no retry or post-processing.
func (c *Composer) Compose(ctx context.Context, question string, chunks []string) (string, error) {
	return c.completer.Complete(ctx, systemPrompt, BuildPrompt(question, chunks))
}
