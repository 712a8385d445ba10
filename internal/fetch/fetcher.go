// Package fetch acquires raw playlist text from bundled resources, local
// files and remote URLs.
//
// Every failure is returned as *AcquireError so callers can tell acquisition
// problems apart from everything else. Parsing happens elsewhere; this package
// only returns text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxPlaylistSize caps a decoded playlist. Larger inputs fail with
// ErrTooLarge instead of being cut short.
const MaxPlaylistSize = 32 << 20

// ErrTooLarge reports a playlist over MaxPlaylistSize.
var ErrTooLarge = errors.New("playlist too large")

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "lineup/0.1 (+https://github.com/abelbrown/lineup)"

// AcquireError reports a failed fetch or read. The core state is never
// touched when one is returned.
type AcquireError struct {
	Source string
	Err    error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Source, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// IsAcquireError reports whether err is (or wraps) an *AcquireError.
func IsAcquireError(err error) bool {
	var ae *AcquireError
	return errors.As(err, &ae)
}

// Fetcher retrieves playlists over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with the given HTTP client timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch downloads url and returns its decoded text.
// The function respects context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	text, err := f.fetch(ctx, url)
	if err != nil {
		return "", &AcquireError{Source: url, Err: err}
	}
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return Decode(resp.Body)
}
