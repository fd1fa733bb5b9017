package pack

import (
	"encoding/binary"
	"math/bits"
)

// HashChain is an implementation of the MatchFinder interface that
// uses hash chaining to find matches. At each position it takes the longest
// of up to SearchLen candidates, and otherwise moves on one byte.
//
// Matches never reach into previous blocks.
type HashChain struct {
	// SearchLen is how many entries to examine on the hash chain.
	// The default is 16.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default is 65535.
	MaxDistance int

	// MaxLength caps the length of a match. 0 means no limit.
	MaxLength int

	table [maxTableSize]int32
	chain []int32
}

const (
	maxTableSize = 1 << 14
	tableShift   = 32 - 14
	// tableMask is redundant, but helps the compiler eliminate bounds
	// checks.
	tableMask = maxTableSize - 1

	hashMul32 = 0x1e35a7bd

	// chainMinMatch is the length of the hashed prefix, and so the shortest
	// match HashChain finds.
	chainMinMatch = 4
)

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> tableShift
}

func (q *HashChain) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *HashChain) FindMatches(dst []Match, src []byte) []Match {
	searchLen := q.SearchLen
	if searchLen == 0 {
		searchLen = 16
	}
	maxDistance := q.MaxDistance
	if maxDistance == 0 {
		maxDistance = 65535
	}
	maxLength := q.MaxLength
	if maxLength == 0 {
		maxLength = len(src)
	}
	maxLength = max(maxLength, chainMinMatch)

	for i := range q.table {
		q.table[i] = -1
	}
	if cap(q.chain) < len(src) {
		q.chain = make([]int32, len(src))
	}
	chain := q.chain[:len(src)]

	insert := func(i int) {
		h := hash4(binary.LittleEndian.Uint32(src[i:])) & tableMask
		chain[i] = q.table[h]
		q.table[h] = int32(i)
	}

	nextEmit := 0
	i := 0
	for i+chainMinMatch <= len(src) {
		seq := binary.LittleEndian.Uint32(src[i:])
		limit := min(len(src), i+maxLength)

		var length, distance int
		candidate := q.table[hash4(seq)&tableMask]
		for n := 0; n < searchLen && candidate >= 0 && i-int(candidate) <= maxDistance; n++ {
			c := int(candidate)
			if binary.LittleEndian.Uint32(src[c:]) == seq {
				end := extendMatch(src[:limit], c+chainMinMatch, i+chainMinMatch)
				if end-i > length {
					length, distance = end-i, i-c
				}
			}
			candidate = chain[c]
		}

		if length == 0 {
			insert(i)
			i++
			continue
		}

		dst = append(dst, Match{
			Unmatched: i - nextEmit,
			Length:    length,
			Distance:  distance,
		})
		end := i + length
		for ; i < end && i+chainMinMatch <= len(src); i++ {
			insert(i)
		}
		i = end
		nextEmit = end
	}

	if nextEmit < len(src) {
		dst = append(dst, Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	// As long as we are 8 or more bytes before the end of src, we can load and
	// compare 8 bytes at a time.
	for j+8 < len(src) {
		iBytes := binary.LittleEndian.Uint64(src[i:])
		jBytes := binary.LittleEndian.Uint64(src[j:])
		if iBytes != jBytes {
			return j + bits.TrailingZeros64(iBytes^jBytes)>>3
		}
		i, j = i+8, j+8
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
