// Package webp converts WebP page images into PNG so they can be placed in
// a PDF. It also confirms encodings by sniffing file headers, since asset
// URLs do not always reflect what the server sends.
package webp

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/flipdoc"
	"golang.org/x/image/webp"
)

// Ensure Normalizer implements flipdoc.Normalizer at compile time.
var _ flipdoc.Normalizer = (*Normalizer)(nil)

// Normalizer re-encodes WebP pages as PNG. JPEG and PNG pages pass through.
type Normalizer struct {
	encoder png.Encoder
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Normalize returns page in a standard encoding. On failure the original
// page is returned along with the error.
func (n *Normalizer) Normalize(ctx context.Context, page *flipdoc.Page) (*flipdoc.Page, error) {
	if err := ctx.Err(); err != nil {
		return page, err
	}

	enc, err := Sniff(page.Path)
	if err != nil {
		return page, err
	}
	if enc == "" {
		enc = page.Encoding
	}

	if enc != flipdoc.EncodingWebP {
		if enc == page.Encoding {
			return page, nil
		}
		out := *page
		out.Encoding = enc
		return &out, nil
	}

	path, err := n.convert(page.Path)
	if err != nil {
		return page, fmt.Errorf("convert page %d: %w", page.Index, err)
	}
	out := *page
	out.Path = path
	out.Encoding = flipdoc.EncodingPNG
	return &out, nil
}

// convert writes a PNG next to src and returns its path.
func (n *Normalizer) convert(src string) (_ string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	img, err := webp.Decode(in)
	if err != nil {
		return "", err
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "." + string(flipdoc.EncodingPNG)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if err := n.encoder.Encode(f, img); err != nil {
		return "", err
	}
	return dst, nil
}

// Sniff detects the encoding of the image at path from its header.
// Returns "" when the format is not recognized.
func Sniff(path string) (flipdoc.Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return sniffBytes(header[:n]), nil
}

func sniffBytes(b []byte) flipdoc.Encoding {
	switch {
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return flipdoc.EncodingWebP
	case bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")):
		return flipdoc.EncodingPNG
	case bytes.HasPrefix(b, []byte{0xff, 0xd8, 0xff}):
		return flipdoc.EncodingJPEG
	}
	return ""
}
