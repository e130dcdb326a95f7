package blobsort

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// mergeIOBufferSize is the bufio buffer size for each merge stream.
	// Small relative to pool buffers; merge memory stays O(1) in file size.
	mergeIOBufferSize = 1 << 16

	// mergeCheckInterval is how many values to emit between context checks.
	mergeCheckInterval = 1 << 20
)

// mergeChunks streams two sorted files into dest with a classic two-way
// merge. Equal values from both sources are all emitted; nothing is
// deduplicated. Inputs are not deleted here, their lifetime belongs to the
// scheduler.
func (s *Sorter) mergeChunks(ctx context.Context, left, right, dest string) error {
	s.logf("merging %s and %s into %s", filepath.Base(left), filepath.Base(right), filepath.Base(dest))

	lf, err := os.Open(left)
	if err != nil {
		return fmt.Errorf("open merge source: %w", err)
	}
	defer lf.Close()

	rf, err := os.Open(right)
	if err != nil {
		return fmt.Errorf("open merge source: %w", err)
	}
	defer rf.Close()

	df, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create merge destination: %w", err)
	}

	// The destination size is the sum of the sources; reserve it up front.
	li, lerr := lf.Stat()
	ri, rerr := rf.Stat()
	if lerr == nil && rerr == nil {
		_ = fallocateFile(df, li.Size()+ri.Size())
	}
	fadviseSequential(int(lf.Fd()), 0, 0)
	fadviseSequential(int(rf.Fd()), 0, 0)

	w := bufio.NewWriterSize(df, mergeIOBufferSize)
	err = mergeValues(ctx,
		bufio.NewReaderSize(lf, mergeIOBufferSize),
		bufio.NewReaderSize(rf, mergeIOBufferSize), w)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		df.Close()
		return fmt.Errorf("merge into %s: %w", filepath.Base(dest), err)
	}
	if err := df.Close(); err != nil {
		return fmt.Errorf("close merge destination: %w", err)
	}
	return nil
}

// mergeValues merges two sorted little-endian value streams into w,
// holding one in-flight value per source. When a source drains, the
// remainder of the other is copied through unchanged.
func mergeValues(ctx context.Context, left, right io.Reader, w io.Writer) error {
	var lword, rword [valueWidth]byte

	lok, err := nextValue(left, lword[:])
	if err != nil {
		return err
	}
	rok, err := nextValue(right, rword[:])
	if err != nil {
		return err
	}

	emitted := 0
	for lok && rok {
		// <= keeps the merge stable: on ties the left source wins.
		if readValue(lword[:]) <= readValue(rword[:]) {
			if _, err := w.Write(lword[:]); err != nil {
				return err
			}
			lok, err = nextValue(left, lword[:])
		} else {
			if _, err := w.Write(rword[:]); err != nil {
				return err
			}
			rok, err = nextValue(right, rword[:])
		}
		if err != nil {
			return err
		}

		emitted++
		if emitted >= mergeCheckInterval {
			emitted = 0
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	if lok {
		if _, err := w.Write(lword[:]); err != nil {
			return err
		}
		if _, err := io.Copy(w, left); err != nil {
			return err
		}
	}
	if rok {
		if _, err := w.Write(rword[:]); err != nil {
			return err
		}
		if _, err := io.Copy(w, right); err != nil {
			return err
		}
	}
	return nil
}

// nextValue reads one value into word. Returns false at a clean end of
// stream; a partial trailing value surfaces as io.ErrUnexpectedEOF.
func nextValue(r io.Reader, word []byte) (bool, error) {
	if _, err := io.ReadFull(r, word); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
