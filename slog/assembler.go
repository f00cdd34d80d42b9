package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/flipdoc"
)

// Ensure LoggingAssembler implements flipdoc.Assembler.
var _ flipdoc.Assembler = (*LoggingAssembler)(nil)

// LoggingAssembler wraps an Assembler with debug logging.
type LoggingAssembler struct {
	next   flipdoc.Assembler
	logger *slog.Logger
}

// NewLoggingAssembler creates a new LoggingAssembler.
func NewLoggingAssembler(next flipdoc.Assembler, logger *slog.Logger) *LoggingAssembler {
	return &LoggingAssembler{next: next, logger: logger}
}

// Assemble delegates to the wrapped assembler and logs the operation.
func (a *LoggingAssembler) Assemble(ctx context.Context, pages []*flipdoc.Page, path string) (placed int, err error) {
	defer func(begin time.Time) {
		a.logger.Debug("assemble",
			"pages", len(pages),
			"placed", placed,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Assemble(ctx, pages, path)
}
