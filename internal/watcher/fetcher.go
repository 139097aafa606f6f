package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/httpclient"
)

// maxErrorBodyExcerpt caps how much of a non-2xx response body is kept
// for error messages.
const maxErrorBodyExcerpt = 1024

// Fetcher retrieves the ranking page HTML.
type Fetcher struct {
	client *httpclient.HTTPClient
	cfg    *config.WatcherConfig
	logger zerolog.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client *httpclient.HTTPClient, cfg *config.WatcherConfig, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "Fetcher").Logger(),
	}
}

// FetchResult holds the outcome of one page fetch.
type FetchResult struct {
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
	Duration   time.Duration
}

// FetchPage performs one GET against the configured source URL. When a
// debug HTML file is configured the raw body is also written there so
// parsing failures can be inspected against the exact page served.
func (f *Fetcher) FetchPage(ctx context.Context) (*FetchResult, error) {
	startTime := time.Now()

	resp, err := f.client.Get(ctx, f.cfg.SourceURL)
	if err != nil {
		f.logger.Error().Err(err).Str("url", f.cfg.SourceURL).Msg("Failed to fetch ranking page")
		return nil, common.NewNetworkError(f.cfg.SourceURL, "HTTP request failed", err)
	}

	if !resp.IsSuccess() {
		excerpt := resp.Body
		if len(excerpt) > maxErrorBodyExcerpt {
			excerpt = excerpt[:maxErrorBodyExcerpt]
		}
		f.logger.Warn().Str("url", f.cfg.SourceURL).Int("status_code", resp.StatusCode).Msg("Received non-success HTTP status")
		return nil, common.NewHTTPErrorWithURL(resp.StatusCode, string(excerpt), f.cfg.SourceURL)
	}

	if f.cfg.DebugHTMLFile != "" {
		f.dumpDebugHTML(resp.Body)
	}

	result := &FetchResult{
		Body:       resp.Body,
		StatusCode: resp.StatusCode,
		FetchedAt:  startTime,
		Duration:   time.Since(startTime),
	}
	f.logger.Debug().
		Str("url", f.cfg.SourceURL).
		Int("status_code", resp.StatusCode).
		Int("size", len(result.Body)).
		Dur("duration", result.Duration).
		Msg("Ranking page fetched")
	return result, nil
}

// dumpDebugHTML is a diagnostics aid; a failed write never fails the fetch.
func (f *Fetcher) dumpDebugHTML(body []byte) {
	if err := common.WriteFileWithDirs(f.cfg.DebugHTMLFile, body, 0644); err != nil {
		f.logger.Warn().Err(err).Str("file", f.cfg.DebugHTMLFile).Msg("Failed to write debug HTML file")
		return
	}
	f.logger.Debug().Str("file", f.cfg.DebugHTMLFile).Int("size", len(body)).Msg("Wrote fetched HTML to debug file")
}
