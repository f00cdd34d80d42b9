package mock

import (
	"context"

	"github.com/fwojciec/flipdoc"
)

var _ flipdoc.Rebuilder = (*Rebuilder)(nil)

// Rebuilder is a mock implementation of flipdoc.Rebuilder.
type Rebuilder struct {
	RebuildFn func(ctx context.Context, input, output string, progress flipdoc.ProgressFunc) (*flipdoc.Result, error)
}

func (r *Rebuilder) Rebuild(ctx context.Context, input, output string, progress flipdoc.ProgressFunc) (*flipdoc.Result, error) {
	return r.RebuildFn(ctx, input, output, progress)
}
