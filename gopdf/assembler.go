// Package gopdf assembles page images into a PDF with signintech/gopdf and
// reads finished documents back with GoPDF2.
package gopdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"

	gopdf2 "github.com/VantageDataChat/GoPDF2"
	"github.com/fwojciec/flipdoc"
	"github.com/signintech/gopdf"
)

// Compile-time interface verification.
var (
	_ flipdoc.Assembler         = (*Assembler)(nil)
	_ flipdoc.DocumentInspector = (*Inspector)(nil)
)

// Assembler writes one PDF page per image, sized to the image so that one
// pixel maps to one point.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates a new Assembler. Pages that cannot be placed are
// logged to logger and left out; a nil logger discards them silently.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{logger: logger}
}

// Assemble writes pages in ascending index order to path and returns how
// many were placed. Pages that are not complete JPEG or PNG images are
// logged and left out. Returns ENOASSETS if no page could be placed; path
// is not created then.
func (a *Assembler) Assemble(ctx context.Context, pages []*flipdoc.Page, path string) (int, error) {
	if len(pages) == 0 {
		return 0, flipdoc.Errorf(flipdoc.ENOASSETS, "no pages to assemble")
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	var placed int
	for _, page := range flipdoc.SortPages(pages) {
		if err := ctx.Err(); err != nil {
			return placed, err
		}

		img, err := decodePage(page.Path)
		if err != nil {
			a.logger.Warn("page skipped", "page", page.Index, "err", err)
			continue
		}

		b := img.Bounds()
		rect := &gopdf.Rect{W: float64(b.Dx()), H: float64(b.Dy())}
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: rect})
		if err := pdf.Image(page.Path, 0, 0, rect); err != nil {
			// gopdf rejects some valid files, e.g. interlaced PNG.
			if err := placeDecoded(pdf, img, rect); err != nil {
				a.logger.Warn("page left blank", "page", page.Index, "err", err)
				continue
			}
		}
		placed++
	}

	if placed == 0 {
		return 0, flipdoc.Errorf(flipdoc.ENOASSETS, "none of %d pages could be placed", len(pages))
	}
	if err := pdf.WritePdf(path); err != nil {
		return 0, err
	}
	return placed, nil
}

// decodePage fully decodes the JPEG or PNG image at path. Truncated files
// and other formats are errors.
func decodePage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unsupported image format %s", format)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image %s", path)
	}
	return img, nil
}

// placeDecoded embeds img on the current page as a freshly encoded PNG.
func placeDecoded(pdf *gopdf.GoPdf, img image.Image, rect *gopdf.Rect) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	holder, err := gopdf.ImageHolderByBytes(buf.Bytes())
	if err != nil {
		return err
	}
	return pdf.ImageByHolder(holder, 0, 0, rect)
}

// Inspector reads assembled documents back.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// PageCount returns the number of pages in the PDF at path.
func (i *Inspector) PageCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return gopdf2.GetSourcePDFPageCountFromBytes(data)
}
