package flipdoc

import "context"

// ConfigPayload is a fetched book configuration. Path is set once the
// payload has been staged to disk for an external decoder.
type ConfigPayload struct {
	URL  string
	Data []byte
	Path string
}

// ConfigResolver finds a book's configuration on the remote service.
type ConfigResolver interface {
	// Resolve probes candidate locations in order and returns the first
	// configuration found. Returns ECONFIGNOTFOUND when none respond.
	Resolve(ctx context.Context, book BookID) (*ConfigPayload, error)
}

// ScriptFinder lists configuration script references in a book's landing page.
type ScriptFinder interface {
	FindConfigScripts(html string) []string
}

// Decoder turns a configuration payload into a Manifest.
// Failures are reported as EDECODE with the decoder's diagnostics.
type Decoder interface {
	Decode(ctx context.Context, payload *ConfigPayload) (Manifest, error)
}
