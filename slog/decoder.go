package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/flipdoc"
)

// Ensure LoggingDecoder implements flipdoc.Decoder.
var _ flipdoc.Decoder = (*LoggingDecoder)(nil)

// LoggingDecoder wraps a Decoder with debug logging.
type LoggingDecoder struct {
	next   flipdoc.Decoder
	logger *slog.Logger
}

// NewLoggingDecoder creates a new LoggingDecoder.
func NewLoggingDecoder(next flipdoc.Decoder, logger *slog.Logger) *LoggingDecoder {
	return &LoggingDecoder{next: next, logger: logger}
}

// Decode delegates to the wrapped decoder and logs the number of top-level
// manifest keys produced.
func (d *LoggingDecoder) Decode(ctx context.Context, payload *flipdoc.ConfigPayload) (m flipdoc.Manifest, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("decode",
			"bytes", len(payload.Data),
			"keys", len(m),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Decode(ctx, payload)
}
