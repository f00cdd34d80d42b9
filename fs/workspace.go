// Package fs provides the scoped scratch directory a rebuild works in.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fwojciec/flipdoc"
)

// Ensure Workspace implements flipdoc.Workspace at compile time.
var _ flipdoc.Workspace = (*Workspace)(nil)

// Workspace is a temporary directory owned by one rebuild. Files are
// staged inside it and moved out on Commit; Release removes whatever is left.
type Workspace struct {
	dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates a fresh directory under parent, or under the
// system temp directory when parent is empty.
func NewWorkspace(parent string) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, "flipdoc-")
	if err != nil {
		return nil, err
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// WriteFile stores data under name and returns its full path.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Commit moves the workspace file name to dst, replacing dst if present.
// A rename is tried first; across filesystems the file is copied to a
// sibling of dst and renamed into place.
func (w *Workspace) Commit(name, dst string) error {
	src := filepath.Join(w.dir, name)

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyInto(src, dst)
}

// Release removes the workspace. It is safe to call more than once.
func (w *Workspace) Release() error {
	w.once.Do(func() {
		w.err = os.RemoveAll(w.dir)
	})
	return w.err
}

func copyInto(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
