package webp_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/flipdoc"
	"github.com/fwojciec/flipdoc/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyWebP is a 1x1 lossless WebP image.
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("converts WebP to PNG", func(t *testing.T) {
		t.Parallel()

		data, err := base64.StdEncoding.DecodeString(tinyWebP)
		require.NoError(t, err)
		page := &flipdoc.Page{Index: 2, Path: writeFile(t, "0002.webp", data), Encoding: flipdoc.EncodingWebP, Checksum: 42}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, 2, out.Index)
		assert.Equal(t, flipdoc.EncodingPNG, out.Encoding)
		assert.Equal(t, ".png", filepath.Ext(out.Path))
		assert.Equal(t, uint64(42), out.Checksum)

		f, err := os.Open(out.Path)
		require.NoError(t, err)
		defer f.Close()
		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, 1, img.Bounds().Dx())
	})

	t.Run("falls back to the original on a corrupt WebP", func(t *testing.T) {
		t.Parallel()

		corrupt := append([]byte("RIFF\x10\x00\x00\x00WEBP"), []byte("VP8 garbage")...)
		page := &flipdoc.Page{Index: 1, Path: writeFile(t, "0001.webp", corrupt), Encoding: flipdoc.EncodingWebP}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.Error(t, err)
		assert.Same(t, page, out)
		_, statErr := os.Stat(filepath.Join(filepath.Dir(page.Path), "0001.png"))
		assert.True(t, os.IsNotExist(statErr), "partial PNG should be removed")
	})

	t.Run("passes JPEG through", func(t *testing.T) {
		t.Parallel()

		page := &flipdoc.Page{Index: 1, Path: writeFile(t, "0001.jpg", jpegBytes(t)), Encoding: flipdoc.EncodingJPEG}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.NoError(t, err)
		assert.Same(t, page, out)
	})

	t.Run("converts WebP served under a JPEG name", func(t *testing.T) {
		t.Parallel()

		data, err := base64.StdEncoding.DecodeString(tinyWebP)
		require.NoError(t, err)
		page := &flipdoc.Page{Index: 3, Path: writeFile(t, "0003.jpg", data), Encoding: flipdoc.EncodingJPEG}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, flipdoc.EncodingPNG, out.Encoding)
	})

	t.Run("keeps unknown content as tagged", func(t *testing.T) {
		t.Parallel()

		page := &flipdoc.Page{Index: 1, Path: writeFile(t, "0001.jpg", []byte("GIF89a")), Encoding: flipdoc.EncodingJPEG}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.NoError(t, err)
		assert.Same(t, page, out)
	})

	t.Run("returns the original when the file is missing", func(t *testing.T) {
		t.Parallel()

		page := &flipdoc.Page{Index: 1, Path: filepath.Join(t.TempDir(), "missing.webp"), Encoding: flipdoc.EncodingWebP}

		out, err := webp.NewNormalizer().Normalize(context.Background(), page)

		require.Error(t, err)
		assert.Same(t, page, out)
	})
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want flipdoc.Encoding
	}{
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), flipdoc.EncodingWebP},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), flipdoc.EncodingPNG},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, flipdoc.EncodingJPEG},
		{"short", []byte("RI"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := webp.Sniff(writeFile(t, "f", tt.data))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
