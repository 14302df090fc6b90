// Package transcript retrieves YouTube video transcripts through the
// timedtext endpoint.
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"videorag/internal/domain"
)

const defaultBaseURL = "https://video.google.com/timedtext"

// DefaultLanguages is the caption language priority used when none is
// configured.
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

// Client fetches transcripts from the timedtext endpoint. Retrieval walks an
// ordered list of strategies: a direct fetch per preferred language first,
// then a track listing to discover a usable caption track. Each strategy is
// tried once; there are no other retries.
type Client struct {
	baseURL string
	client  *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the caption segments for the video, trying languages in the
// given priority order. All strategies failing, or an empty transcript,
// surfaces domain.ErrTranscriptUnavailable.
func (c *Client) Fetch(ctx context.Context, videoID string, languages []string) ([]domain.TranscriptSegment, error) {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	strategies := []func(context.Context, string, []string) ([]domain.TranscriptSegment, error){
		c.fetchDirect,
		c.fetchViaTrackList,
	}
	var failures []string
	for _, strategy := range strategies {
		segments, err := strategy(ctx, videoID, languages)
		if err == nil {
			return segments, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		failures = append(failures, err.Error())
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTranscriptUnavailable, strings.Join(failures, "; "))
}

// fetchDirect requests the caption document for each preferred language in
// turn and returns the first non-empty transcript.
func (c *Client) fetchDirect(ctx context.Context, videoID string, languages []string) ([]domain.TranscriptSegment, error) {
	var lastErr error
	for _, lang := range languages {
		segments, err := c.fetchLanguage(ctx, videoID, lang)
		if err == nil {
			return segments, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// fetchViaTrackList lists the available caption tracks and fetches the first
// one whose language code matches a preferred language, exactly or by
// primary subtag.
func (c *Client) fetchViaTrackList(ctx context.Context, videoID string, languages []string) ([]domain.TranscriptSegment, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	for _, lang := range languages {
		for _, track := range tracks {
			if track == lang || primarySubtag(track) == primarySubtag(lang) {
				return c.fetchLanguage(ctx, videoID, track)
			}
		}
	}
	return nil, fmt.Errorf("no caption track for languages %v", languages)
}

func (c *Client) fetchLanguage(ctx context.Context, videoID, lang string) ([]domain.TranscriptSegment, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)
	data, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Texts []struct {
			Start float64 `xml:"start,attr"`
			Dur   float64 `xml:"dur,attr"`
			Body  string  `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode transcript for lang %s: %w", lang, err)
	}
	if len(doc.Texts) == 0 {
		return nil, fmt.Errorf("no transcript for lang %s", lang)
	}
	segments := make([]domain.TranscriptSegment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		segments = append(segments, domain.TranscriptSegment{
			Text:     strings.TrimSpace(t.Body),
			Start:    t.Start,
			Duration: t.Dur,
		})
	}
	return segments, nil
}

func (c *Client) listTracks(ctx context.Context, videoID string) ([]string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("type", "list")
	data, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Tracks []struct {
			LangCode string `xml:"lang_code,attr"`
		} `xml:"track"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode track list: %w", err)
	}
	if len(doc.Tracks) == 0 {
		return nil, errors.New("no caption tracks listed")
	}
	codes := make([]string, 0, len(doc.Tracks))
	for _, t := range doc.Tracks {
		codes = append(codes, t.LangCode)
	}
	return codes, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext returned %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty timedtext response")
	}
	return data, nil
}

func primarySubtag(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
