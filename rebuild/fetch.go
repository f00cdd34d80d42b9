package rebuild

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/flipdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps simultaneous asset downloads.
const DefaultConcurrency = 8

// Ensure PageFetcher implements flipdoc.PageFetcher at compile time.
var _ flipdoc.PageFetcher = (*PageFetcher)(nil)

// PageFetcher downloads page assets concurrently. Individual failures are
// logged and recorded in the results; they never stop sibling downloads.
type PageFetcher struct {
	Fetcher      flipdoc.Fetcher
	Limiter      flipdoc.HostLimiter // optional
	Concurrency  int
	BatchTimeout time.Duration // zero means no batch deadline
	Logger       *slog.Logger
}

// FetchAll downloads every asset into dir and returns one result per asset
// in input order. It returns only after all downloads have settled.
func (f *PageFetcher) FetchAll(ctx context.Context, assets []*flipdoc.Asset, dir string, progress flipdoc.ProgressFunc) []flipdoc.FetchResult {
	results := make([]flipdoc.FetchResult, len(assets))
	if len(assets) == 0 {
		return results
	}

	concurrency := f.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if f.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.BatchTimeout)
		defer cancel()
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		mu        sync.Mutex
		completed int
		g         errgroup.Group
	)
	g.SetLimit(concurrency)

	for i, asset := range assets {
		g.Go(func() error {
			// Each goroutine owns results[i] and its own target file.
			result := f.fetchOne(ctx, asset, dir)
			results[i] = result

			var err error
			if !result.OK() {
				err = result.Failure.Reason
				logger.Warn("page fetch failed", "page", asset.Index, "url", asset.URL, "err", err)
			}

			if progress != nil {
				mu.Lock()
				completed++
				progress(flipdoc.ProgressEvent{
					Stage:     flipdoc.StageFetch,
					Index:     asset.Index,
					Completed: completed,
					Total:     len(assets),
					Error:     err,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *PageFetcher) fetchOne(ctx context.Context, asset *flipdoc.Asset, dir string) flipdoc.FetchResult {
	fail := func(err error) flipdoc.FetchResult {
		return flipdoc.FetchResult{
			Index:   asset.Index,
			Failure: &flipdoc.FetchFailure{Index: asset.Index, URL: asset.URL, Reason: err},
		}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	if f.Limiter != nil {
		u, err := url.Parse(asset.URL)
		if err != nil {
			return fail(err)
		}
		if err := f.Limiter.Wait(ctx, u.Host); err != nil {
			return fail(err)
		}
	}

	body, err := f.Fetcher.Fetch(ctx, asset.URL)
	if err != nil {
		return fail(err)
	}
	if len(body) == 0 {
		return fail(errEmptyBody)
	}

	path := filepath.Join(dir, asset.Filename)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fail(err)
	}

	return flipdoc.FetchResult{
		Index: asset.Index,
		Page: &flipdoc.Page{
			Index:    asset.Index,
			Path:     path,
			Encoding: asset.Encoding,
			Checksum: xxhash.Sum64(body),
		},
	}
}

var errEmptyBody = errors.New("empty response body")
