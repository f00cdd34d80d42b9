package mock

import (
	"context"

	"github.com/fwojciec/flipdoc"
)

var (
	_ flipdoc.ConfigResolver = (*ConfigResolver)(nil)
	_ flipdoc.ScriptFinder   = (*ScriptFinder)(nil)
	_ flipdoc.Decoder        = (*Decoder)(nil)
)

// ConfigResolver is a mock implementation of flipdoc.ConfigResolver.
type ConfigResolver struct {
	ResolveFn func(ctx context.Context, book flipdoc.BookID) (*flipdoc.ConfigPayload, error)
}

func (r *ConfigResolver) Resolve(ctx context.Context, book flipdoc.BookID) (*flipdoc.ConfigPayload, error) {
	return r.ResolveFn(ctx, book)
}

// ScriptFinder is a mock implementation of flipdoc.ScriptFinder.
type ScriptFinder struct {
	FindConfigScriptsFn func(html string) []string
}

func (f *ScriptFinder) FindConfigScripts(html string) []string {
	return f.FindConfigScriptsFn(html)
}

// Decoder is a mock implementation of flipdoc.Decoder.
type Decoder struct {
	DecodeFn func(ctx context.Context, payload *flipdoc.ConfigPayload) (flipdoc.Manifest, error)
}

func (d *Decoder) Decode(ctx context.Context, payload *flipdoc.ConfigPayload) (flipdoc.Manifest, error) {
	return d.DecodeFn(ctx, payload)
}
