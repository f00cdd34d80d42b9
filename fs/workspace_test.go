package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/flipdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Scoped Workspace
// A rebuild stages files in a private directory and moves only the final
// document out.

func TestWorkspace_CreatesDirectoryUnderParent(t *testing.T) {
	t.Parallel()

	// Given a parent directory
	parent := t.TempDir()

	// When I create a workspace
	ws, err := fs.NewWorkspace(parent)
	require.NoError(t, err)

	// Then it lives inside the parent
	assert.Equal(t, parent, filepath.Dir(ws.Dir()))
	info, err := os.Stat(ws.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWorkspace_WriteFileStagesInsideWorkspace(t *testing.T) {
	t.Parallel()

	ws, err := fs.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	path, err := ws.WriteFile("config.js", []byte("var x = 1;"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Dir(), "config.js"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;", string(data))
}

func TestWorkspace_CommitMovesFileOut(t *testing.T) {
	t.Parallel()

	// Given a staged document
	ws, err := fs.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	_, err = ws.WriteFile("book.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	// When I commit it to a path in a new directory
	dst := filepath.Join(t.TempDir(), "out", "book.pdf")
	err = ws.Commit("book.pdf", dst)

	// Then the document is at the destination
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	// And no longer in the workspace
	_, err = os.Stat(filepath.Join(ws.Dir(), "book.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_CommitReplacesExistingFile(t *testing.T) {
	t.Parallel()

	ws, err := fs.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	_, err = ws.WriteFile("book.pdf", []byte("new"))
	require.NoError(t, err)
	dst := filepath.Join(t.TempDir(), "book.pdf")
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, ws.Commit("book.pdf", dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWorkspace_CommitMissingFileFails(t *testing.T) {
	t.Parallel()

	ws, err := fs.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	err = ws.Commit("book.pdf", filepath.Join(t.TempDir(), "book.pdf"))

	assert.Error(t, err)
}

func TestWorkspace_ReleaseRemovesEverything(t *testing.T) {
	t.Parallel()

	// Given a workspace with staged files
	ws, err := fs.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	_, err = ws.WriteFile("0001.jpg", []byte("x"))
	require.NoError(t, err)

	// When I release it twice
	require.NoError(t, ws.Release())
	require.NoError(t, ws.Release())

	// Then the directory is gone
	_, err = os.Stat(ws.Dir())
	assert.True(t, os.IsNotExist(err))
}
