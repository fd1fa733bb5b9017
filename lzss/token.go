package lzss

import (
	"fmt"

	"github.com/packlab/pack"
)

// A Token is one unit of the LZSS stream: either a raw byte or a
// (distance, length) pair copying earlier output.
type Token struct {
	Pair     bool
	Byte     byte
	Distance int
	Length   int
}

// RawByte returns a token holding the literal b.
func RawByte(b byte) Token {
	return Token{Byte: b}
}

// PairToken returns a token copying length bytes from distance bytes back.
func PairToken(distance, length int) Token {
	return Token{Pair: true, Distance: distance, Length: length}
}

func (t Token) String() string {
	if t.Pair {
		return fmt.Sprintf("<%d,%d>", t.Distance, t.Length)
	}
	return fmt.Sprintf("%q", t.Byte)
}

// Size returns the number of output bytes t produces.
func (t Token) Size() int {
	if t.Pair {
		return t.Length
	}
	return 1
}

// AppendTokens converts matches over src into tokens and appends them to
// dst. Matches that reach back further than maxDistance, or are shorter than
// 2 bytes, become raw bytes; matches longer than maxLength are split.
func AppendTokens(dst []Token, src []byte, matches []pack.Match, maxDistance, maxLength int) []Token {
	pos := 0
	for _, m := range matches {
		for _, b := range src[pos : pos+m.Unmatched] {
			dst = append(dst, RawByte(b))
		}
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		if m.Distance < 1 || m.Distance > pos {
			panic(fmt.Sprintf("lzss: match at %d reaches back %d bytes", pos, m.Distance))
		}
		end := pos + m.Length
		for pos < end {
			n := end - pos
			if n > maxLength {
				n = maxLength
			}
			if n < 2 || m.Distance > maxDistance {
				dst = append(dst, RawByte(src[pos]))
				pos++
				continue
			}
			dst = append(dst, PairToken(m.Distance, n))
			pos += n
		}
	}
	for _, b := range src[pos:] {
		dst = append(dst, RawByte(b))
	}
	return dst
}
