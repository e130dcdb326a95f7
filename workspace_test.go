package blobsort

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkspaceLifecycle(t *testing.T) {
	parent := t.TempDir()
	ws, err := newWorkspace(parent)
	if err != nil {
		t.Fatalf("newWorkspace: %v", err)
	}
	if filepath.Dir(ws.dir) != parent {
		t.Fatalf("workspace %s not under %s", ws.dir, parent)
	}
	if _, err := os.Stat(ws.dir); err != nil {
		t.Fatalf("workspace dir missing: %v", err)
	}

	// remove must take chunk files down with it.
	writeBlob(t, ws.chunkPath(0, 8), []uint32{1, 2})
	ws.remove()
	if _, err := os.Stat(ws.dir); !os.IsNotExist(err) {
		t.Fatalf("workspace still exists after remove: %v", err)
	}

	// Best-effort: removing twice must not panic.
	ws.remove()
}

func TestWorkspaceUnique(t *testing.T) {
	parent := t.TempDir()
	a, err := newWorkspace(parent)
	if err != nil {
		t.Fatalf("newWorkspace: %v", err)
	}
	defer a.remove()
	b, err := newWorkspace(parent)
	if err != nil {
		t.Fatalf("newWorkspace: %v", err)
	}
	defer b.remove()

	if a.dir == b.dir {
		t.Fatalf("two workspaces share the directory %s", a.dir)
	}
}

func TestWorkspaceBadParent(t *testing.T) {
	_, err := newWorkspace(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if err == nil {
		t.Fatal("expected error for nonexistent parent")
	}
}

func TestChunkPathDeterministic(t *testing.T) {
	ws := &workspace{dir: "/tmp/ws"}

	if got, want := ws.chunkPath(0x10, 0x20), ws.chunkPath(0x10, 0x20); got != want {
		t.Fatalf("same range produced different names: %s vs %s", got, want)
	}

	// Distinct ranges must never collide, including ranges whose raw
	// concatenated digits would be ambiguous without the fixed width.
	paths := map[string]bool{}
	ranges := [][2]int64{{0, 8}, {8, 8}, {0, 16}, {16, 8}, {0x1, 0x23}, {0x12, 0x3}}
	for _, r := range ranges {
		p := ws.chunkPath(r[0], r[1])
		if !strings.HasPrefix(p, ws.dir) {
			t.Fatalf("chunk path %s escapes workspace", p)
		}
		if paths[p] {
			t.Fatalf("range (%#x,%#x) collides at %s", r[0], r[1], p)
		}
		paths[p] = true
	}
}
