package blobsort

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"
)

// runMergeValues merges two encoded value sequences through mergeValues and
// decodes the result.
func runMergeValues(t *testing.T, left, right []uint32) []uint32 {
	t.Helper()
	var out bytes.Buffer
	err := mergeValues(context.Background(),
		bytes.NewReader(encodeValues(left)),
		bytes.NewReader(encodeValues(right)), &out)
	if err != nil {
		t.Fatalf("mergeValues: %v", err)
	}
	data := out.Bytes()
	if len(data)%valueWidth != 0 {
		t.Fatalf("merge output is %d bytes", len(data))
	}
	values := make([]uint32, len(data)/valueWidth)
	for i := range values {
		values[i] = readValue(data[i*valueWidth:])
	}
	return values
}

func TestMergeValues(t *testing.T) {
	cases := []struct {
		name        string
		left, right []uint32
		want        []uint32
	}{
		{"interleaved", []uint32{1, 3, 5}, []uint32{2, 4, 6}, []uint32{1, 2, 3, 4, 5, 6}},
		{"left exhausts first", []uint32{1, 2}, []uint32{3, 4, 5, 6}, []uint32{1, 2, 3, 4, 5, 6}},
		{"right exhausts first", []uint32{3, 4, 5, 6}, []uint32{1, 2}, []uint32{1, 2, 3, 4, 5, 6}},
		{"left empty", nil, []uint32{1, 2, 3}, []uint32{1, 2, 3}},
		{"right empty", []uint32{1, 2, 3}, nil, []uint32{1, 2, 3}},
		{"both empty", nil, nil, []uint32{}},
		{"single values", []uint32{9}, []uint32{4}, []uint32{4, 9}},
		{"extremes", []uint32{0, 0xffffffff}, []uint32{0x80000000}, []uint32{0, 0x80000000, 0xffffffff}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runMergeValues(t, tc.left, tc.right)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("merge = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestMergeValuesDuplicates verifies the merge emits every duplicate from
// both sources; nothing is deduplicated.
func TestMergeValuesDuplicates(t *testing.T) {
	got := runMergeValues(t, []uint32{2, 2, 7}, []uint32{2, 7, 7})
	want := []uint32{2, 2, 2, 7, 7, 7}
	if !slices.Equal(got, want) {
		t.Fatalf("merge = %v, want %v", got, want)
	}
}

func TestMergeValuesMisalignedSource(t *testing.T) {
	var out bytes.Buffer
	err := mergeValues(context.Background(),
		bytes.NewReader([]byte{1, 2, 3}), // partial trailing value
		bytes.NewReader(encodeValues([]uint32{5})), &out)
	if err == nil {
		t.Fatal("expected error for misaligned source")
	}
}

func TestMergeChunksFiles(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left")
	right := filepath.Join(dir, "right")
	dest := filepath.Join(dir, "merged")

	writeBlob(t, left, []uint32{1, 4, 4, 9})
	writeBlob(t, right, []uint32{2, 4, 10})

	s := &Sorter{cfg: defaultConfig()}
	if err := s.mergeChunks(context.Background(), left, right, dest); err != nil {
		t.Fatalf("mergeChunks: %v", err)
	}

	got := readBlob(t, dest)
	want := []uint32{1, 2, 4, 4, 4, 9, 10}
	if !slices.Equal(got, want) {
		t.Fatalf("merged = %v, want %v", got, want)
	}
}

func TestMergeChunksMissingSource(t *testing.T) {
	dir := t.TempDir()
	right := filepath.Join(dir, "right")
	writeBlob(t, right, []uint32{1})

	s := &Sorter{cfg: defaultConfig()}
	err := s.mergeChunks(context.Background(), filepath.Join(dir, "missing"), right, filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected error for missing merge source")
	}
}

func TestMergeChunksBadDestination(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left")
	right := filepath.Join(dir, "right")
	writeBlob(t, left, []uint32{1})
	writeBlob(t, right, []uint32{2})

	s := &Sorter{cfg: defaultConfig()}
	err := s.mergeChunks(context.Background(), left, right, filepath.Join(dir, "no-such-dir", "out"))
	if err == nil {
		t.Fatal("expected error for unwritable destination")
	}
}
