package http

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/flipdoc"
)

// DefaultConfigPaths are probed, in order, relative to the book's base URL.
var DefaultConfigPaths = []string{"config.js", "javascript/config.js"}

// Ensure ConfigResolver implements flipdoc.ConfigResolver at compile time.
var _ flipdoc.ConfigResolver = (*ConfigResolver)(nil)

// ConfigResolver probes candidate configuration URLs for a book.
// Failed candidates are logged at debug level as attempts, never as errors.
type ConfigResolver struct {
	fetcher flipdoc.Fetcher
	origin  string
	paths   []string
	finder  flipdoc.ScriptFinder
	logger  *slog.Logger
}

// ResolverOption configures a ConfigResolver.
type ResolverOption func(*ConfigResolver)

// WithOrigin sets the scheme and host books are served from.
// Defaults to flipdoc.DefaultOrigin.
func WithOrigin(origin string) ResolverOption {
	return func(r *ConfigResolver) {
		r.origin = origin
	}
}

// WithConfigPaths replaces DefaultConfigPaths.
func WithConfigPaths(paths ...string) ResolverOption {
	return func(r *ConfigResolver) {
		r.paths = paths
	}
}

// WithScriptFinder enables landing page discovery once the fixed paths
// are exhausted.
func WithScriptFinder(finder flipdoc.ScriptFinder) ResolverOption {
	return func(r *ConfigResolver) {
		r.finder = finder
	}
}

// WithLogger sets the logger used for probe attempts.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *ConfigResolver) {
		r.logger = logger
	}
}

// NewConfigResolver creates a ConfigResolver that fetches through fetcher.
func NewConfigResolver(fetcher flipdoc.Fetcher, opts ...ResolverOption) *ConfigResolver {
	r := &ConfigResolver{
		fetcher: fetcher,
		origin:  flipdoc.DefaultOrigin,
		paths:   DefaultConfigPaths,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first configuration that can be fetched for book.
// Returns ECONFIGNOTFOUND when every candidate fails.
func (r *ConfigResolver) Resolve(ctx context.Context, book flipdoc.BookID) (*flipdoc.ConfigPayload, error) {
	base := book.BaseURL(r.origin)
	tried := make(map[string]bool)

	for _, p := range r.paths {
		if payload := r.probe(ctx, base+p, tried); payload != nil {
			return payload, nil
		}
	}

	if r.finder != nil {
		for _, u := range r.discover(ctx, base) {
			if payload := r.probe(ctx, u, tried); payload != nil {
				return payload, nil
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, flipdoc.Errorf(flipdoc.ECONFIGNOTFOUND,
		"no configuration found for book %q (%d locations tried)", book, len(tried))
}

// probe fetches u unless it was already tried. An empty body counts as a miss.
func (r *ConfigResolver) probe(ctx context.Context, u string, tried map[string]bool) *flipdoc.ConfigPayload {
	if tried[u] || ctx.Err() != nil {
		return nil
	}
	tried[u] = true

	data, err := r.fetcher.Fetch(ctx, u)
	if err == nil && len(data) == 0 {
		err = errEmptyConfig
	}
	r.logger.Debug("config attempt", "url", u, "bytes", len(data), "err", err)
	if err != nil {
		return nil
	}
	return &flipdoc.ConfigPayload{URL: u, Data: data}
}

// discover lists configuration scripts referenced by the landing page,
// resolved against base.
func (r *ConfigResolver) discover(ctx context.Context, base string) []string {
	if ctx.Err() != nil {
		return nil
	}
	html, err := r.fetcher.Fetch(ctx, base)
	if err != nil {
		r.logger.Debug("landing page", "url", base, "err", err)
		return nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	var urls []string
	for _, src := range r.finder.FindConfigScripts(string(html)) {
		ref, err := url.Parse(src)
		if err != nil {
			continue
		}
		urls = append(urls, baseURL.ResolveReference(ref).String())
	}
	r.logger.Debug("landing page", "url", base, "scripts", len(urls))
	return urls
}

var errEmptyConfig = flipdoc.Errorf(flipdoc.EINVALID, "empty configuration")
