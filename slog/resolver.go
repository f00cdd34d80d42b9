package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/flipdoc"
)

// Ensure LoggingConfigResolver implements flipdoc.ConfigResolver.
var _ flipdoc.ConfigResolver = (*LoggingConfigResolver)(nil)

// LoggingConfigResolver wraps a ConfigResolver with debug logging.
type LoggingConfigResolver struct {
	next   flipdoc.ConfigResolver
	logger *slog.Logger
}

// NewLoggingConfigResolver creates a new LoggingConfigResolver.
func NewLoggingConfigResolver(next flipdoc.ConfigResolver, logger *slog.Logger) *LoggingConfigResolver {
	return &LoggingConfigResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs where the
// configuration was found.
func (r *LoggingConfigResolver) Resolve(ctx context.Context, book flipdoc.BookID) (payload *flipdoc.ConfigPayload, err error) {
	defer func(begin time.Time) {
		var url string
		if payload != nil {
			url = payload.URL
		}
		r.logger.Debug("config resolve",
			"book", book,
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, book)
}
