package blobsort

import (
	"encoding/binary"
	"math/rand"
	"os"
	"slices"
	"testing"
)

// newTestRNG returns a deterministic RNG so failures reproduce.
func newTestRNG(t *testing.T) *rand.Rand {
	t.Helper()
	return rand.New(rand.NewSource(0xb10b + int64(len(t.Name()))))
}

// encodeValues packs values as little-endian 4-byte words.
func encodeValues(values []uint32) []byte {
	buf := make([]byte, len(values)*valueWidth)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*valueWidth:], v)
	}
	return buf
}

// writeBlob writes values to path in the on-disk blob format.
func writeBlob(t *testing.T, path string, values []uint32) {
	t.Helper()
	if err := os.WriteFile(path, encodeValues(values), 0o644); err != nil {
		t.Fatalf("write blob %s: %v", path, err)
	}
}

// readBlob reads path back as a slice of values.
func readBlob(t *testing.T, path string) []uint32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read blob %s: %v", path, err)
	}
	if len(data)%valueWidth != 0 {
		t.Fatalf("blob %s is %d bytes, not a multiple of %d", path, len(data), valueWidth)
	}
	values := make([]uint32, len(data)/valueWidth)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*valueWidth:])
	}
	return values
}

// randomValues generates n pseudo-random values, duplicates included.
func randomValues(rng *rand.Rand, n int) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = rng.Uint32()
	}
	return values
}

// sortedCopy returns an ascending copy of values.
func sortedCopy(values []uint32) []uint32 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// checkSortResult fails the test unless got is exactly the ascending
// permutation of want's values.
func checkSortResult(t *testing.T, want, got []uint32) {
	t.Helper()
	expected := sortedCopy(want)
	if !slices.Equal(expected, got) {
		if len(expected) != len(got) {
			t.Fatalf("output has %d values, want %d", len(got), len(expected))
		}
		for i := range expected {
			if expected[i] != got[i] {
				t.Fatalf("output[%d] = %d, want %d", i, got[i], expected[i])
			}
		}
	}
}

// dirEntryCount returns the number of entries in dir.
func dirEntryCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	return len(entries)
}
