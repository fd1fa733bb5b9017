package lzss

import (
	"encoding/binary"
	"math/bits"
)

// A Span is a view of Len bytes of a source buffer, starting at Pos.
// It never owns the bytes; the buffer is supplied by whoever holds the Span.
type Span struct {
	Pos int
	Len int
}

// Bytes returns the bytes of src that s refers to.
func (s Span) Bytes(src []byte) []byte {
	return src[s.Pos : s.Pos+s.Len]
}

// End returns the index just past the last byte of s.
func (s Span) End() int {
	return s.Pos + s.Len
}

// matchLength returns the length of the common prefix of a and b.
func matchLength(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	// Compare 8 bytes at a time. If they differ, XOR the two values, and the
	// index of the first differing byte is the trailing zero count over 8,
	// since the loads are little-endian.
	for ; i+8 <= n; i += 8 {
		x := binary.LittleEndian.Uint64(a[i:]) ^ binary.LittleEndian.Uint64(b[i:])
		if x != 0 {
			return i + bits.TrailingZeros64(x)>>3
		}
	}
	for ; i < n && a[i] == b[i]; i++ {
	}
	return i
}

// compareAt orders a and b lexicographically, given that their first l
// bytes are known to be equal. A proper prefix sorts first.
func compareAt(a, b []byte, l int) int {
	switch {
	case l < len(a) && l < len(b):
		if a[l] < b[l] {
			return -1
		}
		return 1
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// compareBytes orders a and b lexicographically and also returns the length
// of their common prefix.
func compareBytes(a, b []byte) (cmp, common int) {
	common = matchLength(a, b)
	return compareAt(a, b, common), common
}
