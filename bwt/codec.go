package bwt

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/packlab/pack/bitstream"
)

// Stats describes one encoded stream.
type Stats struct {
	OriginalSize   int
	CompressedSize int
	// Index is the row of the unrotated input in the sorted rotation matrix.
	Index        int
	AlphabetSize int
	PairCount    int
	// Entropy is the Shannon entropy of the move-to-front indices, in bits
	// per symbol.
	Entropy float64
}

// BitsPerSymbol returns the average number of output bits per input byte.
func (s Stats) BitsPerSymbol() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return float64(s.CompressedSize*8) / float64(s.OriginalSize)
}

// Result is the output of Encode.
type Result struct {
	Data  []byte
	Stats Stats
}

// Encode compresses data with the Burrows-Wheeler transform, move-to-front
// coding and run-length encoding of the indices, and writes the stream
// described in the package documentation.
func Encode(data []byte) *Result {
	last, index := Transform(nil, data)
	alphabet := Alphabet(last)
	indices := EncodeMTF(last, alphabet)
	pairs := EncodeRLE(indices)

	out := writeStream(nil, index, alphabet, len(indices), pairs)
	return &Result{
		Data: out,
		Stats: Stats{
			OriginalSize:   len(data),
			CompressedSize: len(out),
			Index:          index,
			AlphabetSize:   len(alphabet),
			PairCount:      len(pairs),
			Entropy:        entropy(indices),
		},
	}
}

// indexBits returns the width of an alphabet index field.
func indexBits(alphabetSize int) int {
	if alphabetSize == 0 {
		return 0
	}
	return bits.Len(uint(alphabetSize - 1))
}

func writeStream(dst []byte, index int, alphabet []byte, count int, pairs []RLEPair) []byte {
	w := bitstream.NewWriter(dst)
	iBits := bits.Len(uint(index))
	w.WriteByte(byte(iBits))
	w.WriteBits(uint64(index), iBits)

	w.WriteUint64(uint64(len(alphabet)))
	for _, c := range alphabet {
		w.WriteByte(c)
	}

	xBits := indexBits(len(alphabet))
	w.WriteByte(byte(xBits))
	w.WriteUint64(uint64(count))
	w.WriteUint64(uint64(len(pairs)))
	for _, p := range pairs {
		if len(p.Literals) > maxLiterals || p.RunLength > maxRun {
			panic("bwt: RLE pair does not fit its byte counts")
		}
		w.WriteByte(byte(len(p.Literals)))
		for _, x := range p.Literals {
			w.WriteBits(uint64(x), xBits)
		}
		w.WriteByte(byte(p.RunLength))
		w.WriteBits(uint64(p.RunSymbol), xBits)
	}
	return w.Bytes()
}

// minPairBits is the size of an RLE pair with no literals and zero-width
// indices: two count bytes.
const minPairBits = 16

// Decode decompresses a stream produced by Encode.
func Decode(src []byte) ([]byte, error) {
	r := bitstream.NewReader(src)
	missing := func(what string) error {
		return fmt.Errorf("%w: missing %s at bit %d", ErrMalformed, what, r.Offset())
	}

	iBits, err := r.ReadByte()
	if err != nil {
		return nil, missing("index width")
	}
	if iBits > 63 {
		return nil, fmt.Errorf("%w: index width %d", ErrMalformed, iBits)
	}
	index, err := r.ReadBits(int(iBits))
	if err != nil {
		return nil, missing("index")
	}

	alphabetSize, err := r.ReadUint64()
	if err != nil {
		return nil, missing("alphabet size")
	}
	if alphabetSize > 256 {
		return nil, fmt.Errorf("%w: alphabet of %d symbols", ErrMalformed, alphabetSize)
	}
	alphabet := make([]byte, alphabetSize)
	for i := range alphabet {
		if alphabet[i], err = r.ReadByte(); err != nil {
			return nil, missing("alphabet")
		}
		if i > 0 && alphabet[i] <= alphabet[i-1] {
			return nil, fmt.Errorf("%w: alphabet is not sorted", ErrMalformed)
		}
	}

	xBits, err := r.ReadByte()
	if err != nil {
		return nil, missing("index field width")
	}
	if int(xBits) != indexBits(len(alphabet)) {
		return nil, fmt.Errorf("%w: %d-bit indices for %d symbols", ErrMalformed, xBits, len(alphabet))
	}
	count, err := r.ReadUint64()
	if err != nil {
		return nil, missing("index count")
	}
	pairCount, err := r.ReadUint64()
	if err != nil {
		return nil, missing("pair count")
	}
	if pairCount > uint64(r.Remaining()/minPairBits) {
		return nil, fmt.Errorf("%w: %d pairs cannot fit in %d bits", ErrMalformed, pairCount, r.Remaining())
	}
	if count > pairCount*(maxLiterals+maxRun) {
		return nil, fmt.Errorf("%w: %d pairs cannot expand to %d symbols", ErrMalformed, pairCount, count)
	}
	if count == 0 && (index != 0 || len(alphabet) != 0) || count > 0 && index >= count {
		return nil, fmt.Errorf("%w: index %d for %d symbols", ErrMalformed, index, count)
	}

	readIndex := func() (byte, error) {
		x, err := r.ReadBits(int(xBits))
		if err != nil {
			return 0, missing("symbol")
		}
		if x >= uint64(len(alphabet)) {
			return 0, fmt.Errorf("%w: symbol index %d with %d symbols", ErrMalformed, x, len(alphabet))
		}
		return byte(x), nil
	}

	indices := make([]byte, 0, count)
	pairs := make([]RLEPair, 1)
	for p := uint64(0); p < pairCount; p++ {
		n, err := r.ReadByte()
		if err != nil {
			return nil, missing("literal count")
		}
		literals := make([]byte, n)
		for i := range literals {
			if literals[i], err = readIndex(); err != nil {
				return nil, err
			}
		}
		run, err := r.ReadByte()
		if err != nil {
			return nil, missing("run length")
		}
		symbol, err := readIndex()
		if err != nil {
			return nil, err
		}
		if uint64(len(indices))+uint64(n)+uint64(run) > count {
			return nil, fmt.Errorf("%w: pairs expand past %d symbols", ErrMalformed, count)
		}
		pairs[0] = RLEPair{Literals: literals, RunLength: int(run), RunSymbol: symbol}
		indices = DecodeRLE(indices, pairs)
	}
	if uint64(len(indices)) != count {
		return nil, fmt.Errorf("%w: pairs expand to %d symbols, want %d", ErrMalformed, len(indices), count)
	}
	if r.Remaining() >= 8 {
		return nil, fmt.Errorf("%w: %d bits left over", ErrTrailingData, r.Remaining())
	}

	last, err := DecodeMTF(indices, alphabet)
	if err != nil {
		return nil, err
	}
	return Inverse(nil, last, int(index))
}

// entropy returns the Shannon entropy of the byte distribution of data.
func entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, c := range data {
		counts[c]++
	}
	n := float64(len(data))
	var h float64
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / n
			h -= p * math.Log2(p)
		}
	}
	return h
}
