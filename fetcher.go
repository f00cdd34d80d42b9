package flipdoc

import "context"

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	// Fetch performs one GET request and returns the response body.
	// Non-success status codes are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HostLimiter paces requests to a single host.
type HostLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
