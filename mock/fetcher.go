package mock

import (
	"context"

	"github.com/fwojciec/flipdoc"
)

var (
	_ flipdoc.Fetcher     = (*Fetcher)(nil)
	_ flipdoc.HostLimiter = (*HostLimiter)(nil)
)

// Fetcher is a mock implementation of flipdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

// HostLimiter is a mock implementation of flipdoc.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
