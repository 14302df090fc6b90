package domain

import "errors"

// Sentinel errors shared across the application. Callers classify failures
// with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrInvalidReference means a video reference did not match any
	// recognized URL shape.
	ErrInvalidReference = errors.New("invalid video reference")

	// ErrTranscriptUnavailable means every transcript retrieval strategy
	// failed, or the transcript was empty.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")

	// ErrConfiguration means a component was given invalid parameters.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound means no stored content exists for the requested video.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamCompletion means the completion collaborator failed or was
	// unreachable.
	ErrUpstreamCompletion = errors.New("completion upstream failed")
)
