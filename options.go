package blobsort

import (
	"fmt"
	"log"
	"runtime"

	bloberrors "github.com/tamirms/blobsort/errors"
)

const (
	// defaultMemoryLimit caps the total bytes committed to sort buffers.
	defaultMemoryLimit = 256 << 20

	// defaultMaxInputSize is the deployment ceiling on input blob size.
	defaultMaxInputSize = 16 << 30
)

// Option is a functional option for configuring a sort run.
type Option func(*config)

type config struct {
	memoryLimit  int64
	parallelism  int
	bufferSize   int64 // 0 = derive from memoryLimit and parallelism
	tempDir      string
	maxInputSize int64
	verify       bool
	logger       *log.Logger
}

func defaultConfig() *config {
	return &config{
		memoryLimit:  defaultMemoryLimit,
		parallelism:  runtime.NumCPU(),
		maxInputSize: defaultMaxInputSize,
	}
}

// WithMemoryLimit caps the total memory committed to sort buffers, in bytes.
// Default is 256MB. Peak buffer memory never exceeds this limit regardless
// of input size.
func WithMemoryLimit(bytes int64) Option {
	return func(c *config) {
		c.memoryLimit = bytes
	}
}

// WithParallelism sets the parallelism hint used to derive the buffer size.
// Default is runtime.NumCPU(). The pool holds two buffers per unit of
// parallelism, so buffer size is memoryLimit / (2 × n).
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

// WithBufferSize overrides the derived pool buffer size, in bytes. Must be a
// positive multiple of 4. Intended for deterministic tests with small
// buffers; combine with WithMemoryLimit to control the buffer count.
func WithBufferSize(bytes int64) Option {
	return func(c *config) {
		c.bufferSize = bytes
	}
}

// WithTempDir sets the parent directory for the per-run temp workspace.
// Default is os.TempDir(). The workspace itself is a uniquely named
// subdirectory and is removed when the run ends.
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithMaxInputSize sets the input size ceiling in bytes. Default is 16GB,
// matching the intended deployment envelope. Zero disables the ceiling.
func WithMaxInputSize(bytes int64) Option {
	return func(c *config) {
		c.maxInputSize = bytes
	}
}

// WithVerify re-reads the finished output after the sort: the output must be
// non-decreasing and carry the same multiset of values as the input.
func WithVerify() Option {
	return func(c *config) {
		c.verify = true
	}
}

// WithLogger enables per-merge progress lines on the given logger.
// The default (nil) is silent.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// resolve computes the pool geometry once at startup. The derived buffer
// size is memoryLimit / (2 × parallelism), rounded down to a whole number of
// values; the pool holds memoryLimit / bufferSize buffers.
func (c *config) resolve() (bufferSize int64, bufferCount int, err error) {
	if c.memoryLimit < valueWidth {
		return 0, 0, fmt.Errorf("%w: %d bytes", bloberrors.ErrInvalidMemoryLimit, c.memoryLimit)
	}

	bufferSize = c.bufferSize
	if bufferSize == 0 {
		parallelism := c.parallelism
		if parallelism <= 0 {
			parallelism = runtime.NumCPU()
		}
		bufferSize = c.memoryLimit / int64(2*parallelism)
		bufferSize -= bufferSize % valueWidth
	}
	if bufferSize < valueWidth || bufferSize%valueWidth != 0 {
		return 0, 0, fmt.Errorf("%w: %d bytes", bloberrors.ErrInvalidBufferSize, bufferSize)
	}

	bufferCount = int(c.memoryLimit / bufferSize)
	if bufferCount < 1 {
		return 0, 0, fmt.Errorf("%w: limit %d bytes, buffer %d bytes",
			bloberrors.ErrInvalidMemoryLimit, c.memoryLimit, bufferSize)
	}
	return bufferSize, bufferCount, nil
}
