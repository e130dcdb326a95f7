package blobsort

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// sortLeaf is the recursion's base case: read exactly size bytes of the
// input at offset into a pooled buffer, sort them in place as 32-bit values,
// and spill the buffer verbatim to dest. The buffer lease brackets exactly
// this call and is released on every exit path.
func (s *Sorter) sortLeaf(offset, size int64, dest string) error {
	l := s.pool.acquire()
	defer l.Release()

	buf := l.bytes()[:size]
	if err := s.readRange(buf, offset); err != nil {
		return err
	}
	sort.Sort(valueSlice(buf))
	return writeChunk(dest, buf)
}

// readRange fills buf from the input file starting at offset. Each leaf
// opens its own read-only handle, so concurrent leaves never contend on a
// shared file position. ReadAt treats a short read as an error.
func (s *Sorter) readRange(buf []byte, offset int64) error {
	f, err := os.Open(s.inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	fadviseSequential(int(f.Fd()), offset, int64(len(buf)))
	if _, err := f.ReadAt(buf, offset); err != nil {
		return fmt.Errorf("read input at %#x: %w", offset, err)
	}
	return nil
}

// writeChunk creates or overwrites path with the contents of buf. The final
// size is known up front, so disk blocks are preallocated before writing.
func writeChunk(path string, buf []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create chunk %s: %w", filepath.Base(path), err)
	}

	// Preallocation is an optimization; a failed fallocate is not fatal,
	// the write below reports the real error if the disk is full.
	_ = fallocateFile(f, int64(len(buf)))

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write chunk %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chunk %s: %w", filepath.Base(path), err)
	}
	return nil
}
