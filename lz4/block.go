package lz4

import (
	"encoding/binary"

	"github.com/packlab/pack"
)

const (
	minMatch    = 4
	maxDistance = 65535

	// A block must end with at least 5 literals, and its last match must
	// start at least 12 bytes before the end.
	lastLiterals  = 5
	matchLimit    = 12
	tokenMaxField = 15
)

// A BlockEncoder implements the pack.Encoder interface, writing in the LZ4
// block format.
//
// Any MatchFinder can feed it: matches shorter than 4 bytes or further than
// 65535 bytes back become literals. The matches slice is not modified.
type BlockEncoder struct{}

func (BlockEncoder) Reset() {}

func (BlockEncoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	matches = pack.MergeShortMatches(append([]pack.Match(nil), matches...), minMatch, maxDistance)

	tail := 0
	for len(matches) > 0 {
		m := matches[len(matches)-1]
		if m.Length > 0 && tail >= lastLiterals && tail+m.Length >= matchLimit {
			break
		}
		matches = matches[:len(matches)-1]
		tail += m.Unmatched + m.Length
	}

	pos := 0
	for _, m := range matches {
		dst = append(dst, token(m.Unmatched, m.Length-minMatch))
		if m.Unmatched >= tokenMaxField {
			dst = appendInt(dst, m.Unmatched-tokenMaxField)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length-minMatch >= tokenMaxField {
			dst = appendInt(dst, m.Length-minMatch-tokenMaxField)
		}
		pos += m.Unmatched + m.Length
	}

	// The final sequence is literals only.
	literals := len(src) - pos
	dst = append(dst, token(literals, 0))
	if literals >= tokenMaxField {
		dst = appendInt(dst, literals-tokenMaxField)
	}
	return append(dst, src[pos:]...)
}

// token packs the literal count and match length code into a sequence's
// first byte, saturating each field at 15.
func token(literals, matchCode int) byte {
	return byte(min(literals, tokenMaxField)<<4 | min(matchCode, tokenMaxField))
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}
