package bwt

import (
	"bytes"
	"fmt"
	"slices"
)

// Transform computes the Burrows-Wheeler transform of src. It returns the
// last column of the sorted matrix of src's cyclic rotations, appended to
// dst, and the row in which src itself appears.
//
// Rotations are compared as views into a doubled copy of src, so the
// matrix is never built; equal rotations keep their natural order. Sorting
// costs O(n log n) comparisons of up to n bytes each, which is slow for long
// runs of a single byte.
func Transform(dst, src []byte) (last []byte, index int) {
	n := len(src)
	if n == 0 {
		return dst, 0
	}

	doubled := make([]byte, 2*n)
	copy(doubled, src)
	copy(doubled[n:], src)

	rotations := make([]int, n)
	for i := range rotations {
		rotations[i] = i
	}
	slices.SortStableFunc(rotations, func(a, b int) int {
		return bytes.Compare(doubled[a:a+n], doubled[b:b+n])
	})

	for k, off := range rotations {
		if off == 0 {
			index = k
		}
		dst = append(dst, src[(off+n-1)%n])
	}
	return dst, index
}

// lfMapping returns T, where T[i] is the row of the sorted rotation matrix
// whose first byte is the occurrence of last[i] in the first column. The
// first column is the sorted last column, and equal bytes appear in the
// same relative order in both.
func lfMapping(last []byte) []int {
	var start [256]int
	for _, c := range last {
		start[c]++
	}
	sum := 0
	for c, count := range start {
		start[c] = sum
		sum += count
	}

	t := make([]int, len(last))
	for i, c := range last {
		t[i] = start[c]
		start[c]++
	}
	return t
}

// Inverse reverses Transform, appending the original bytes to dst. The
// output is rebuilt back to front: output[n-1-k] = last[T^k(index)].
func Inverse(dst, last []byte, index int) ([]byte, error) {
	n := len(last)
	if n == 0 {
		if index != 0 {
			return nil, fmt.Errorf("%w: %d for empty input", ErrIndex, index)
		}
		return dst, nil
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%w: %d of %d rows", ErrIndex, index, n)
	}

	t := lfMapping(last)
	start := len(dst)
	dst = slices.Grow(dst, n)[:start+n]
	out := dst[start:]
	row := index
	for k := 0; k < n; k++ {
		out[n-1-k] = last[row]
		row = t[row]
	}
	return dst, nil
}
