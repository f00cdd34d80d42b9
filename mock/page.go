package mock

import (
	"context"

	"github.com/fwojciec/flipdoc"
)

var (
	_ flipdoc.PageFetcher       = (*PageFetcher)(nil)
	_ flipdoc.Normalizer        = (*Normalizer)(nil)
	_ flipdoc.Assembler         = (*Assembler)(nil)
	_ flipdoc.DocumentInspector = (*DocumentInspector)(nil)
)

// PageFetcher is a mock implementation of flipdoc.PageFetcher.
type PageFetcher struct {
	FetchAllFn func(ctx context.Context, assets []*flipdoc.Asset, dir string, progress flipdoc.ProgressFunc) []flipdoc.FetchResult
}

func (f *PageFetcher) FetchAll(ctx context.Context, assets []*flipdoc.Asset, dir string, progress flipdoc.ProgressFunc) []flipdoc.FetchResult {
	return f.FetchAllFn(ctx, assets, dir, progress)
}

// Normalizer is a mock implementation of flipdoc.Normalizer.
type Normalizer struct {
	NormalizeFn func(ctx context.Context, page *flipdoc.Page) (*flipdoc.Page, error)
}

func (n *Normalizer) Normalize(ctx context.Context, page *flipdoc.Page) (*flipdoc.Page, error) {
	return n.NormalizeFn(ctx, page)
}

// Assembler is a mock implementation of flipdoc.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, pages []*flipdoc.Page, path string) (int, error)
}

func (a *Assembler) Assemble(ctx context.Context, pages []*flipdoc.Page, path string) (int, error) {
	return a.AssembleFn(ctx, pages, path)
}

// DocumentInspector is a mock implementation of flipdoc.DocumentInspector.
type DocumentInspector struct {
	PageCountFn func(path string) (int, error)
}

func (i *DocumentInspector) PageCount(path string) (int, error) {
	return i.PageCountFn(path)
}
