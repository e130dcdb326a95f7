package blobsort

import "encoding/binary"

// valueWidth is the fixed byte size of each sortable element. Input, chunk,
// and output files are all bare sequences of valueWidth-byte little-endian
// words with no header or padding.
const valueWidth = 4

func readValue(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func writeValue(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// valueSlice adapts a raw little-endian byte buffer to sort.Interface,
// ordering whole 4-byte words by unsigned numeric value. Sorting rearranges
// the words in place; no decoded copy of the buffer is made, so the pooled
// buffer remains the only memory committed to a leaf sort.
type valueSlice []byte

func (s valueSlice) Len() int { return len(s) / valueWidth }

func (s valueSlice) Less(i, j int) bool {
	return readValue(s[i*valueWidth:]) < readValue(s[j*valueWidth:])
}

func (s valueSlice) Swap(i, j int) {
	vi := readValue(s[i*valueWidth:])
	vj := readValue(s[j*valueWidth:])
	writeValue(s[i*valueWidth:], vj)
	writeValue(s[j*valueWidth:], vi)
}
