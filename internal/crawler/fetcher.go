package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// Fetch issues one GET for url and returns the body. Transport failures and non-2xx
// statuses are *domain.NetworkError. There is no retry.
func (s *Scraper) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.client.Get(ctx, url, s.headers)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: fmt.Errorf("http fetch: %w", err)}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &domain.NetworkError{
			URL:        url,
			StatusCode: code,
			Err:        fmt.Errorf("body: %s", responseSnippet(body)),
		}
	}
	return body, nil
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
