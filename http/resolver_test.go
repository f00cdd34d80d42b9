package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fwojciec/flipdoc"
	flipdochttp "github.com/fwojciec/flipdoc/http"
	"github.com/fwojciec/flipdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookServer serves the given paths and records every request path.
type bookServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func newBookServer(t *testing.T, files map[string]string) *bookServer {
	t.Helper()

	s := &bookServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.mu.Unlock()

		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *bookServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func TestConfigResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("returns the first candidate that responds", func(t *testing.T) {
		t.Parallel()

		// Given a book whose configuration lives at the second candidate path
		server := newBookServer(t, map[string]string{
			"/abc/def/javascript/config.js": "var fliphtml5_pages = [];",
		})
		resolver := flipdochttp.NewConfigResolver(flipdochttp.NewFetcher(), flipdochttp.WithOrigin(server.URL))

		// When I resolve the configuration
		payload, err := resolver.Resolve(context.Background(), "abc/def")

		// Then the second candidate is returned after probing the first
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/abc/def/javascript/config.js", payload.URL)
		assert.Equal(t, "var fliphtml5_pages = [];", string(payload.Data))
		assert.Equal(t, []string{"/abc/def/config.js", "/abc/def/javascript/config.js"}, server.Requests())
	})

	t.Run("stops probing after the first success", func(t *testing.T) {
		t.Parallel()

		server := newBookServer(t, map[string]string{
			"/abc/def/config.js":            "first",
			"/abc/def/javascript/config.js": "second",
		})
		resolver := flipdochttp.NewConfigResolver(flipdochttp.NewFetcher(), flipdochttp.WithOrigin(server.URL))

		payload, err := resolver.Resolve(context.Background(), "abc/def")

		require.NoError(t, err)
		assert.Equal(t, "first", string(payload.Data))
		assert.Len(t, server.Requests(), 1)
	})

	t.Run("returns ECONFIGNOTFOUND when all candidates fail", func(t *testing.T) {
		t.Parallel()

		server := newBookServer(t, map[string]string{})
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		resolver := flipdochttp.NewConfigResolver(flipdochttp.NewFetcher(),
			flipdochttp.WithOrigin(server.URL),
			flipdochttp.WithLogger(logger),
		)

		_, err := resolver.Resolve(context.Background(), "abc/def")

		assert.Equal(t, flipdoc.ECONFIGNOTFOUND, flipdoc.ErrorCode(err))
		assert.Contains(t, logs.String(), "config attempt")
		assert.NotContains(t, logs.String(), "level=ERROR")
	})

	t.Run("treats an empty body as a miss", func(t *testing.T) {
		t.Parallel()

		server := newBookServer(t, map[string]string{
			"/abc/def/config.js":            "",
			"/abc/def/javascript/config.js": "found",
		})
		resolver := flipdochttp.NewConfigResolver(flipdochttp.NewFetcher(), flipdochttp.WithOrigin(server.URL))

		payload, err := resolver.Resolve(context.Background(), "abc/def")

		require.NoError(t, err)
		assert.Equal(t, "found", string(payload.Data))
	})

	t.Run("discovers scripts from the landing page", func(t *testing.T) {
		t.Parallel()

		server := newBookServer(t, map[string]string{
			"/abc/def/":                   `<html><script src="files/js/config.js?v=2"></script></html>`,
			"/abc/def/files/js/config.js": "discovered",
		})
		finder := &mock.ScriptFinder{
			FindConfigScriptsFn: func(html string) []string {
				assert.Contains(t, html, "config.js")
				return []string{"files/js/config.js?v=2", "config.js"}
			},
		}
		resolver := flipdochttp.NewConfigResolver(flipdochttp.NewFetcher(),
			flipdochttp.WithOrigin(server.URL),
			flipdochttp.WithScriptFinder(finder),
		)

		payload, err := resolver.Resolve(context.Background(), "abc/def")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/abc/def/files/js/config.js?v=2", payload.URL)
		assert.Equal(t, "discovered", string(payload.Data))
	})

	t.Run("custom paths are probed in order", func(t *testing.T) {
		t.Parallel()

		var urls []string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) ([]byte, error) {
				urls = append(urls, url)
				return nil, assert.AnError
			},
		}
		resolver := flipdochttp.NewConfigResolver(fetcher, flipdochttp.WithConfigPaths("a.js", "b.js"))

		_, err := resolver.Resolve(context.Background(), "book")

		assert.Equal(t, flipdoc.ECONFIGNOTFOUND, flipdoc.ErrorCode(err))
		assert.Equal(t, []string{
			flipdoc.DefaultOrigin + "/book/a.js",
			flipdoc.DefaultOrigin + "/book/b.js",
		}, urls)
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) ([]byte, error) {
				return nil, ctx.Err()
			},
		}

		_, err := flipdochttp.NewConfigResolver(fetcher).Resolve(ctx, "book")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
