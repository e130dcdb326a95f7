package blobsort

import (
	"fmt"
	"os"
	"path/filepath"

	bloberrors "github.com/tamirms/blobsort/errors"
)

// workspace is the uniquely named temp directory holding every intermediate
// chunk file for one sort run. It is created before any chunk work begins
// and removed when the run ends, on success and on failure alike.
type workspace struct {
	dir string
}

func newWorkspace(parent string) (*workspace, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir, err := os.MkdirTemp(parent, "blobsort-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bloberrors.ErrWorkspace, err)
	}
	return &workspace{dir: dir}, nil
}

// chunkPath derives a chunk file name from its range. Names are a pure
// function of (offset, size), so sibling branches running concurrently can
// never collide without any locking on the directory.
func (w *workspace) chunkPath(offset, size int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%016x-%016x", offset, size))
}

// remove tears the workspace down recursively. Best-effort: it may run while
// an error is unwinding and must never mask that error or panic.
func (w *workspace) remove() {
	_ = os.RemoveAll(w.dir)
}
