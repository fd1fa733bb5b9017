package lzss

import (
	"github.com/packlab/pack"
	"github.com/packlab/pack/bitstream"
)

// flagGroupSize is the number of tokens that share one flag byte.
const flagGroupSize = 8

// headerBits is the size of the stream header: a 64-bit original size and
// one byte each for the distance and length field widths.
const headerBits = 64 + 8 + 8

// Stats describes one encoded stream.
type Stats struct {
	OriginalSize   int
	CompressedSize int
	PairCount      int
	RawCount       int
	LongestMatch   int
	SearchSize     int
	LookAheadSize  int
	SBits          int
	LBits          int
}

// BitsPerSymbol returns the average number of output bits per input byte.
func (s Stats) BitsPerSymbol() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return float64(s.CompressedSize*8) / float64(s.OriginalSize)
}

// An Encoder implements the pack.Encoder interface, writing the LZSS bit
// format: a header, then groups of one flag byte and up to 8 tokens.
//
// The header records the total input size, so blocks are buffered and the
// whole stream is written when the last block arrives. Matches from any
// MatchFinder are accepted; ones that do not fit the window are split or
// turned into raw bytes.
type Encoder struct {
	// SearchSize and LookAheadSize fix the widths of the pair fields.
	// Zero values mean DefaultOptions.
	SearchSize    int
	LookAheadSize int

	// Stats is filled in when the last block has been encoded.
	Stats Stats

	src     []byte
	matches []pack.Match
	tokens  []Token
}

func (e *Encoder) Reset() {
	e.src = e.src[:0]
	e.matches = e.matches[:0]
	e.tokens = e.tokens[:0]
	e.Stats = Stats{}
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	e.src = append(e.src, src...)
	e.matches = append(e.matches, matches...)
	covered := 0
	for _, m := range matches {
		covered += m.Unmatched + m.Length
	}
	if covered > len(src) {
		panic("lzss: matches cover more than the block")
	}
	if covered < len(src) {
		e.matches = append(e.matches, pack.Match{Unmatched: len(src) - covered})
	}
	if !lastBlock {
		return dst
	}

	opts := Options{SearchSize: e.SearchSize, LookAheadSize: e.LookAheadSize}
	if opts.SearchSize == 0 && opts.LookAheadSize == 0 {
		opts = *DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	e.tokens = AppendTokens(e.tokens[:0], e.src, e.matches, opts.SearchSize, opts.LookAheadSize)

	start := len(dst)
	sBits, lBits := fieldBits(opts.SearchSize), fieldBits(opts.LookAheadSize)
	dst = writeTokens(dst, e.tokens, len(e.src), sBits, lBits)

	st := Stats{
		OriginalSize:   len(e.src),
		CompressedSize: len(dst) - start,
		SearchSize:     opts.SearchSize,
		LookAheadSize:  opts.LookAheadSize,
		SBits:          sBits,
		LBits:          lBits,
	}
	for _, t := range e.tokens {
		if t.Pair {
			st.PairCount++
			if t.Length > st.LongestMatch {
				st.LongestMatch = t.Length
			}
		} else {
			st.RawCount++
		}
	}
	e.Stats = st

	e.src = e.src[:0]
	e.matches = e.matches[:0]
	return dst
}

// writeTokens appends the header and the flag-grouped tokens to dst.
func writeTokens(dst []byte, tokens []Token, size, sBits, lBits int) []byte {
	w := bitstream.NewWriter(dst)
	w.WriteUint64(uint64(size))
	w.WriteByte(byte(sBits))
	w.WriteByte(byte(lBits))

	for len(tokens) > 0 {
		group := tokens
		if len(group) > flagGroupSize {
			group = group[:flagGroupSize]
		}
		tokens = tokens[len(group):]

		var flags byte
		for k, t := range group {
			if t.Pair {
				flags |= 1 << k
			}
		}
		w.WriteByte(flags)
		for _, t := range group {
			if t.Pair {
				w.WriteBits(uint64(t.Distance), sBits)
				w.WriteBits(uint64(t.Length), lBits)
			} else {
				w.WriteByte(t.Byte)
			}
		}
	}
	return w.Bytes()
}
