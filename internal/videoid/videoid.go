// Package videoid extracts canonical YouTube video identifiers from URLs.
package videoid

import (
	"fmt"
	"regexp"

	"videorag/internal/domain"
)

// Recognized URL shapes, tried in order; the first match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#\s]*&)?v=([^&\n?#]+)`),
	regexp.MustCompile(`youtu\.be/([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#/]+)`),
}

// Resolve extracts the video identifier from a reference URL.
// The same reference always yields the same identifier.
func Resolve(reference string) (string, error) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(reference); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidReference, reference)
}
