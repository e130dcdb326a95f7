package blobsort

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	bloberrors "github.com/tamirms/blobsort/errors"
	"golang.org/x/sync/errgroup"
)

// Stats describes one completed sort run.
type Stats struct {
	BytesSorted int64
	LeafSorts   int64
	Merges      int64
	BufferSize  int64
	BufferCount int
	Elapsed     time.Duration
}

// Sorter holds the state of one sort run: the resolved configuration, the
// buffer pool, and the temp workspace. A Sorter is created per SortBlob32
// call and discarded afterwards.
type Sorter struct {
	cfg         *config
	inputPath   string
	outputPath  string
	inputSize   int64
	bufferSize  int64
	bufferCount int
	pool        *bufferPool
	ws          *workspace

	leafSorts atomic.Int64
	merges    atomic.Int64
}

// SortBlob32 sorts the 32-bit little-endian values in inputPath into
// outputPath using bounded memory. The input size must be a positive
// multiple of 4 bytes and within the configured ceiling; violations are
// rejected before any temp files are created. On success outputPath holds
// the same multiset of values as inputPath in ascending order. On failure
// outputPath may be absent or partial, but no temp files remain.
func SortBlob32(ctx context.Context, inputPath, outputPath string, opts ...Option) (Stats, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s, err := newSorter(cfg, inputPath, outputPath)
	if err != nil {
		return Stats{}, err
	}
	defer s.ws.remove()

	start := time.Now()
	if _, err := s.sortRange(ctx, 0, s.inputSize, s.outputPath); err != nil {
		return Stats{}, err
	}

	if cfg.verify {
		if err := s.verifyOutput(); err != nil {
			return Stats{}, err
		}
	}

	return Stats{
		BytesSorted: s.inputSize,
		LeafSorts:   s.leafSorts.Load(),
		Merges:      s.merges.Load(),
		BufferSize:  s.bufferSize,
		BufferCount: s.bufferCount,
		Elapsed:     time.Since(start),
	}, nil
}

// newSorter validates the input and builds the run state. Validation runs
// before workspace creation so a rejected input leaves nothing on disk.
func newSorter(cfg *config, inputPath, outputPath string) (*Sorter, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	size := info.Size()
	if size <= 0 || size%valueWidth != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes", bloberrors.ErrInvalidInputSize, inputPath, size)
	}
	if cfg.maxInputSize > 0 && size > cfg.maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", bloberrors.ErrInputTooLarge, size, cfg.maxInputSize)
	}

	bufferSize, bufferCount, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	ws, err := newWorkspace(cfg.tempDir)
	if err != nil {
		return nil, err
	}

	return &Sorter{
		cfg:         cfg,
		inputPath:   inputPath,
		outputPath:  outputPath,
		inputSize:   size,
		bufferSize:  bufferSize,
		bufferCount: bufferCount,
		pool:        newBufferPool(bufferSize, bufferCount),
		ws:          ws,
	}, nil
}

// sortRange sorts one contiguous byte range of the input and returns the
// path of the sorted result. Ranges that fit a pool buffer are leaf-sorted
// directly; larger ranges are halved, sorted concurrently, and merged.
//
// dest overrides the auto-derived chunk name. Only the top-level call sets
// it, passing the real output path, which guarantees the output file is
// written exactly once by exactly one merge (or one leaf sort, when the
// whole input fits a single buffer).
//
// Fan-out is unconditional: each split spawns both halves as goroutines and
// joins on them. No goroutine cap exists; the buffer pool alone throttles
// how many branches make progress at once.
func (s *Sorter) sortRange(ctx context.Context, offset, size int64, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if dest == "" {
		dest = s.ws.chunkPath(offset, size)
	}

	if size <= s.bufferSize {
		if err := s.sortLeaf(offset, size, dest); err != nil {
			return "", err
		}
		s.leafSorts.Add(1)
		return dest, nil
	}

	// Keep both halves value-aligned: round the split down to a whole
	// number of values and give the remainder to the right half.
	half := size / 2
	half -= half % valueWidth

	var leftPath, rightPath string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.sortRange(gctx, offset, half, "")
		leftPath = p
		return err
	})
	g.Go(func() error {
		p, err := s.sortRange(gctx, offset+half, size-half, "")
		rightPath = p
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := s.mergeChunks(ctx, leftPath, rightPath, dest); err != nil {
		return "", err
	}
	s.merges.Add(1)

	// Both inputs were consumed by the merge. Removal is best-effort: a
	// failed unlink must not turn a completed sort into an error.
	_ = os.Remove(leftPath)
	_ = os.Remove(rightPath)

	return dest, nil
}

func (s *Sorter) logf(format string, args ...any) {
	if s.cfg.logger != nil {
		s.cfg.logger.Printf(format, args...)
	}
}
