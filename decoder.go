package flipdoc

import (
	"context"
	"encoding/json"
	"regexp"
)

var (
	encryptedConfigRe = regexp.MustCompile(`bookConfig"?\s*:\s*"[^"]+"`)
	htmlConfigRe      = regexp.MustCompile(`var\s+htmlConfig\s*=\s*(\{[\s\S]*?\});`)
	pagesVarRe        = regexp.MustCompile(`var\s+fliphtml5_pages\s*=\s*(\[[\s\S]*?\]);`)
)

// Ensure decoders implement Decoder at compile time.
var (
	_ Decoder = (*PlainDecoder)(nil)
	_ Decoder = DecoderChain(nil)
)

// PlainDecoder reads unencrypted configurations directly. It handles
// scripts that declare `var htmlConfig = {...}` and/or
// `var fliphtml5_pages = [...]` as strict JSON, and refuses anything that
// needs the external decoder.
type PlainDecoder struct{}

// Decode implements Decoder.
func (PlainDecoder) Decode(_ context.Context, payload *ConfigPayload) (Manifest, error) {
	content := payload.Data
	if encryptedConfigRe.Match(content) {
		return nil, Errorf(EDECODE, "configuration is encrypted")
	}

	m := Manifest{}
	if match := htmlConfigRe.FindSubmatch(content); match != nil {
		_ = json.Unmarshal(match[1], &m)
	}
	if match := pagesVarRe.FindSubmatch(content); match != nil {
		var pages []any
		if err := json.Unmarshal(match[1], &pages); err == nil {
			m[PagesKey] = pages
		}
	}

	if _, err := ExtractPages(m); err != nil {
		return nil, Errorf(EDECODE, "no plain page list in configuration")
	}
	return m, nil
}

// DecoderChain tries each decoder in order and returns the first Manifest
// produced. When all fail, the last decoder's error is returned unchanged.
type DecoderChain []Decoder

// Decode implements Decoder.
func (c DecoderChain) Decode(ctx context.Context, payload *ConfigPayload) (Manifest, error) {
	err := error(Errorf(EDECODE, "no decoder configured"))
	for _, d := range c {
		var m Manifest
		if m, err = d.Decode(ctx, payload); err == nil {
			return m, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, err
}
