package flipdoc

import (
	"context"
	"sort"
)

// Page is a page image stored on local disk.
type Page struct {
	Index    int
	Path     string
	Encoding Encoding
	Checksum uint64
}

// FetchFailure records why a page could not be retrieved. It deliberately
// does not implement error: per-page failures are counted and logged,
// never returned as a pipeline failure.
type FetchFailure struct {
	Index  int
	URL    string
	Reason error
}

// FetchResult is the outcome for one submitted asset: exactly one of Page
// or Failure is set.
type FetchResult struct {
	Index   int
	Page    *Page
	Failure *FetchFailure
}

// OK reports whether the asset was retrieved.
func (r FetchResult) OK() bool {
	return r.Page != nil
}

// SuccessfulPages returns the retrieved pages in ascending index order.
func SuccessfulPages(results []FetchResult) []*Page {
	var pages []*Page
	for _, r := range results {
		if r.OK() {
			pages = append(pages, r.Page)
		}
	}
	return SortPages(pages)
}

// SortPages returns a copy of pages ordered by ascending index.
func SortPages(pages []*Page) []*Page {
	sorted := make([]*Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

// PageFetcher downloads page assets into a directory.
type PageFetcher interface {
	// FetchAll returns one FetchResult per asset, in input order. It never
	// fails as a whole; it returns once every fetch has settled.
	FetchAll(ctx context.Context, assets []*Asset, dir string, progress ProgressFunc) []FetchResult
}

// Normalizer converts page images into an encoding the Assembler accepts.
type Normalizer interface {
	// Normalize returns a page in a standard encoding. On failure it returns
	// the original page together with the error, so the page is never lost.
	Normalize(ctx context.Context, page *Page) (*Page, error)
}

// Assembler writes pages into one paged document.
type Assembler interface {
	// Assemble writes pages in ascending index order to path and returns
	// how many were placed. Pages that cannot be read are left out.
	// Returns ENOASSETS if pages is empty or none could be placed.
	Assemble(ctx context.Context, pages []*Page, path string) (int, error)
}

// DocumentInspector reads back an assembled document.
type DocumentInspector interface {
	PageCount(path string) (int, error)
}
