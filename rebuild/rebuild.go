// Package rebuild reconstructs a flipbook into one document. It sequences
// configuration resolution, decoding, page extraction, concurrent asset
// download, image normalization and assembly inside a scoped workspace.
package rebuild

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fwojciec/flipdoc"
)

// Workspace file names.
const (
	configFile   = "config.js"
	documentFile = "document.pdf"
)

// Ensure Rebuilder implements flipdoc.Rebuilder at compile time.
var _ flipdoc.Rebuilder = (*Rebuilder)(nil)

// Rebuilder orchestrates one rebuild. Stage failures abort the run;
// per-page failures are counted and the run continues with what is left.
type Rebuilder struct {
	Resolver     flipdoc.ConfigResolver
	Decoder      flipdoc.Decoder
	Fetcher      flipdoc.PageFetcher
	Normalizer   flipdoc.Normalizer
	Assembler    flipdoc.Assembler
	Inspector    flipdoc.DocumentInspector // optional
	NewWorkspace func() (flipdoc.Workspace, error)
	Origin       string
	Logger       *slog.Logger
}

// Rebuild reconstructs the book identified by input and writes it to output.
// The output file is only created when the run succeeds. The workspace is
// removed on every exit path; a failed removal is logged, not returned.
func (r *Rebuilder) Rebuild(ctx context.Context, input, output string, progress flipdoc.ProgressFunc) (*flipdoc.Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notify := func(e flipdoc.ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	book := flipdoc.ParseBookID(input)
	logger.Info("target book", "book", book)

	ws, err := r.NewWorkspace()
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			logger.Warn("workspace cleanup failed", "dir", ws.Dir(), "err", err)
		}
	}()

	result := &flipdoc.Result{Book: book, Output: output}

	// Resolve and stage the configuration.
	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageResolve})
	payload, err := r.Resolver.Resolve(ctx, book)
	if err != nil {
		return nil, err
	}
	result.ConfigURL = payload.URL
	logger.Info("fetched configuration", "url", payload.URL, "bytes", len(payload.Data))

	if payload.Path, err = ws.WriteFile(configFile, payload.Data); err != nil {
		return nil, fmt.Errorf("stage configuration: %w", err)
	}

	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageDecode})
	manifest, err := r.Decoder.Decode(ctx, payload)
	if err != nil {
		return nil, err
	}

	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageExtract})
	list, err := flipdoc.ExtractPages(manifest)
	if err != nil {
		return nil, err
	}
	result.Schema = list.Schema
	result.Pages = len(list.Pages)
	logger.Info("found pages", "pages", len(list.Pages), "schema", list.Schema.String(), "key", list.Key)

	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageLocate, Total: len(list.Pages)})
	locator := flipdoc.NewLocator(book.BaseURL(r.Origin))
	assets := make([]*flipdoc.Asset, 0, len(list.Pages))
	for _, page := range list.Pages {
		asset, err := locator.Locate(page)
		if err != nil {
			result.Skipped++
			logger.Warn("page skipped", "page", page.Index, "err", flipdoc.ErrorMessage(err))
			continue
		}
		assets = append(assets, asset)
	}

	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageFetch, Total: len(assets)})
	results := r.Fetcher.FetchAll(ctx, assets, ws.Dir(), progress)
	pages := flipdoc.SuccessfulPages(results)
	result.Fetched = len(pages)
	result.Failed = len(results) - len(pages)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, flipdoc.Errorf(flipdoc.ENOASSETS,
			"no page images downloaded (%d failed, %d skipped)", result.Failed, result.Skipped)
	}
	logger.Info("downloaded pages", "fetched", result.Fetched, "failed", result.Failed)

	normalized := make([]*flipdoc.Page, 0, len(pages))
	for i, page := range pages {
		out, err := r.Normalizer.Normalize(ctx, page)
		if err != nil {
			result.Fallbacks++
			logger.Warn("keeping original page image", "page", page.Index, "err", err)
		}
		if out == nil {
			out = page
		}
		normalized = append(normalized, out)
		notify(flipdoc.ProgressEvent{
			Stage:     flipdoc.StageNormalize,
			Index:     page.Index,
			Completed: i + 1,
			Total:     len(pages),
			Error:     err,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageAssemble, Total: len(normalized)})
	placed, err := r.Assembler.Assemble(ctx, normalized, filepath.Join(ws.Dir(), documentFile))
	if err != nil {
		return nil, err
	}
	result.Dropped = len(normalized) - placed
	if result.Dropped > 0 {
		logger.Warn("pages left out of document", "dropped", result.Dropped)
	}
	if err := ws.Commit(documentFile, output); err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}

	if r.Inspector != nil {
		if n, err := r.Inspector.PageCount(output); err != nil {
			logger.Warn("could not read back document", "path", output, "err", err)
		} else {
			result.DocumentPages = n
		}
	}

	logger.Info("document saved", "path", output, "pages", placed, "failed", result.Failed, "dropped", result.Dropped)
	notify(flipdoc.ProgressEvent{Stage: flipdoc.StageDone, Completed: placed, Total: result.Pages})
	return result, nil
}
