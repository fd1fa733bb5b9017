// The pack package is a modular system for data compression.
//
// Many compression libraries have two main parts:
//   - Something that looks for repeated sequences of bytes
//   - An encoder for the compressed data format
//
// Although these are logically two separate steps, the implementations are
// usually closely tied together. This package defines interfaces and an
// intermediate representation so that the components can be mixed and
// matched: the LZSS dictionary tree in package lzss can feed the LZ4 encoder,
// and the LZSS bit format can be written from any MatchFinder's output.
package pack

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

// AutoReset wraps a MatchFinder that can return references to data in previous
// blocks, and calls Reset before each block. It is needed when feeding an
// Encoder whose format doesn't support references between blocks.
type AutoReset struct {
	MatchFinder
}

func (a AutoReset) FindMatches(dst []Match, src []byte) []Match {
	a.Reset()
	return a.MatchFinder.FindMatches(dst, src)
}

// MergeShortMatches rewrites matches in place so that every match shorter
// than minLength, or reaching back further than maxDistance, is turned into
// unmatched bytes. A maxDistance of 0 means unlimited. It returns the
// shortened slice. The bytes covered are unchanged, so the result is still a
// valid parse of the same block.
func MergeShortMatches(matches []Match, minLength, maxDistance int) []Match {
	out := matches[:0]
	pending := 0
	for _, m := range matches {
		if m.Length > 0 && m.Length >= minLength && (maxDistance == 0 || m.Distance <= maxDistance) {
			out = append(out, Match{
				Unmatched: pending + m.Unmatched,
				Length:    m.Length,
				Distance:  m.Distance,
			})
			pending = 0
			continue
		}
		pending += m.Unmatched + m.Length
	}
	if pending > 0 {
		out = append(out, Match{Unmatched: pending})
	}
	return out
}
