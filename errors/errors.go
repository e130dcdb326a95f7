// Package errors defines all exported error sentinels for the blobsort library.
//
// This is the single source of truth for error values. The top-level blobsort
// package wraps lower-level I/O failures around these sentinels with %w, so
// errors.Is checks work at every call site.
package errors

import "errors"

// Validation errors
var (
	ErrInvalidInputSize   = errors.New("blobsort: input size is not a positive multiple of the value width")
	ErrInputTooLarge      = errors.New("blobsort: input size exceeds the configured maximum")
	ErrInvalidBufferSize  = errors.New("blobsort: buffer size must be a positive multiple of the value width")
	ErrInvalidMemoryLimit = errors.New("blobsort: memory limit too small for the configured buffer size")
)

// Run errors
var (
	ErrWorkspace      = errors.New("blobsort: failed to create temp workspace")
	ErrMisalignedFile = errors.New("blobsort: file size is not a multiple of the value width")
)

// Verification errors
var (
	ErrNotSorted      = errors.New("blobsort: values are not in ascending order")
	ErrDigestMismatch = errors.New("blobsort: output multiset digest does not match input")
)
