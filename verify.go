package blobsort

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	bloberrors "github.com/tamirms/blobsort/errors"
)

// CheckSorted reports whether path holds a non-decreasing sequence of 32-bit
// little-endian values. The file is memory-mapped read-only, so the scan
// needs no heap buffers regardless of file size. An empty file is sorted.
func CheckSorted(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil
	}
	if size%valueWidth != 0 {
		return fmt.Errorf("%w: %s is %d bytes", bloberrors.ErrMisalignedFile, path, size)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	defer mm.Unmap()

	data := []byte(mm)
	prev := readValue(data)
	for off := int64(valueWidth); off < size; off += valueWidth {
		v := readValue(data[off:])
		if v < prev {
			return fmt.Errorf("%w: %d at offset %#x follows %d", bloberrors.ErrNotSorted, v, off, prev)
		}
		prev = v
	}
	return nil
}

// MultisetDigest returns an order-independent digest of the values in path:
// the wrapping sum of the 64-bit hash of each value's raw bytes. Reordering
// a file never changes its digest, so the digest of a sorted output must
// equal the digest of its input.
func MultisetDigest(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fadviseSequential(int(f.Fd()), 0, 0)

	r := bufio.NewReaderSize(f, mergeIOBufferSize)
	var word [valueWidth]byte
	var digest uint64
	for {
		ok, err := nextValue(r, word[:])
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		if !ok {
			return digest, nil
		}
		digest += xxhash.Sum64(word[:])
	}
}

// verifyOutput cross-checks the finished output against the input.
func (s *Sorter) verifyOutput() error {
	if err := CheckSorted(s.outputPath); err != nil {
		return err
	}
	in, err := MultisetDigest(s.inputPath)
	if err != nil {
		return err
	}
	out, err := MultisetDigest(s.outputPath)
	if err != nil {
		return err
	}
	if in != out {
		return fmt.Errorf("%w: input %016x, output %016x", bloberrors.ErrDigestMismatch, in, out)
	}
	return nil
}
