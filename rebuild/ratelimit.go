package rebuild

import (
	"context"
	"sync"

	"github.com/fwojciec/flipdoc"
	"golang.org/x/time/rate"
)

var _ flipdoc.HostLimiter = (*HostLimiter)(nil)

// HostLimiter paces page downloads per host. A manifest may point page
// images at a CDN while relative references stay on the book host, so
// slowing one host must not hold back the other.
type HostLimiter struct {
	rps   rate.Limit
	burst int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewHostLimiter allows rps requests per second to every host, with a burst
// of at least 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		rps:   rate.Limit(rps),
		burst: max(burst, 1),
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host may start or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.bucket(host).Wait(ctx)
}

// bucket returns the token bucket for host, creating it on first use.
func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.hosts[host]
	if b == nil {
		b = rate.NewLimiter(l.rps, l.burst)
		l.hosts[host] = b
	}
	return b
}
