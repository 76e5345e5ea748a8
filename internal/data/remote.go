package data

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dam-price-predictor/internal/model"
)

// Fetcher downloads DAM reports published over HTTP.
type Fetcher struct {
	Client *http.Client
	log    zerolog.Logger
}

// NewFetcher creates a fetcher with a 30s timeout.
func NewFetcher(log zerolog.Logger) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
		log:    log.With().Str("component", "fetcher").Logger(),
	}
}

// FetchError is a non-200 answer from the report server.
type FetchError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *FetchError) Error() string {
	return e.Message
}

// IsRemote reports whether a --data argument names a URL rather than a file.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// FetchCSV downloads and parses a DAM CSV report.
func (f *Fetcher) FetchCSV(ctx context.Context, url string) ([]model.Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := f.Client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		f.log.Warn().Err(err).Str("url", url).Dur("elapsed", elapsed).Msg("request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	f.log.Info().Str("url", url).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("report fetched")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &FetchError{StatusCode: resp.StatusCode, Code: "NOT_FOUND", Message: "report not found: " + url}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "UPSTREAM_ERROR",
			Message:    fmt.Sprintf("report server returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	obs, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	f.log.Debug().Int("observations", len(obs)).Msg("report parsed")
	return obs, nil
}
