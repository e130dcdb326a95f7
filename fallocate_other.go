//go:build !linux && !darwin

package blobsort

import "os"

// fallocateFile pre-allocates disk blocks for a chunk or merge destination
// whose final size is known up front.
// On platforms without native fallocate, uses Truncate as a fallback.
// Note: This sets file size but may not reserve actual disk blocks on all filesystems.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
