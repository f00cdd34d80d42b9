package flipdoc

import "context"

// Stage names a step of a rebuild.
type Stage string

// Stage constants in pipeline order.
const (
	StageResolve   Stage = "resolve"
	StageDecode    Stage = "decode"
	StageExtract   Stage = "extract"
	StageLocate    Stage = "locate"
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StageAssemble  Stage = "assemble"
	StageDone      Stage = "done"
)

// ProgressEvent reports progress during a rebuild.
type ProgressEvent struct {
	Stage     Stage
	Index     int
	Completed int
	Total     int
	Error     error
}

// ProgressFunc is called as a rebuild proceeds.
type ProgressFunc func(ProgressEvent)

// Result summarizes a successful rebuild.
type Result struct {
	Book          BookID
	ConfigURL     string
	Output        string
	Schema        Schema
	Pages         int // descriptors in the manifest
	Skipped       int // descriptors without a usable image reference
	Fetched       int
	Failed        int
	Fallbacks     int // pages kept in their original encoding after a failed conversion
	Dropped       int // downloaded pages the assembler could not place
	DocumentPages int // pages read back from the output, 0 if unknown
}

// Rebuilder turns a book URL or identifier into a document.
type Rebuilder interface {
	Rebuild(ctx context.Context, input, output string, progress ProgressFunc) (*Result, error)
}

// Workspace is a scratch directory scoped to a single rebuild.
type Workspace interface {
	// Dir returns the workspace directory.
	Dir() string

	// WriteFile stores data under name and returns its full path.
	WriteFile(name string, data []byte) (string, error)

	// Commit moves the workspace file name to dst.
	Commit(name, dst string) error

	// Release removes the workspace and everything in it.
	Release() error
}
