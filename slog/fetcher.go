// Package slog provides log/slog decorators that record each call to a
// flipdoc service with its duration and outcome.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/flipdoc"
)

// Ensure LoggingFetcher implements flipdoc.Fetcher.
var _ flipdoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   flipdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next flipdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
