package lzss

import (
	"fmt"

	"github.com/packlab/pack/bitstream"
)

// maxFieldBits bounds the pair field widths accepted from a header.
const maxFieldBits = 32

type header struct {
	size  uint64
	sBits int
	lBits int
}

func readHeader(r *bitstream.Reader) (header, error) {
	var h header
	if r.Remaining() < headerBits {
		return h, fmt.Errorf("%w: %d-bit stream is shorter than the header", ErrMalformed, r.Remaining())
	}
	h.size, _ = r.ReadUint64()
	s, _ := r.ReadByte()
	l, _ := r.ReadByte()
	h.sBits, h.lBits = int(s), int(l)
	if h.sBits < 1 || h.sBits > maxFieldBits || h.lBits < 1 || h.lBits > maxFieldBits {
		return h, fmt.Errorf("%w: field widths S=%d L=%d", ErrMalformed, h.sBits, h.lBits)
	}

	// A pair can expand to at most 2^lBits-1 bytes, a raw byte to one, so
	// the declared size can be checked against the bits that follow.
	maxLen := uint64(1)<<h.lBits - 1
	if h.size/maxLen > uint64(r.Remaining()) {
		return h, fmt.Errorf("%w: size %d cannot be produced from %d bits", ErrMalformed, h.size, r.Remaining())
	}
	return h, nil
}

// Decode decompresses a stream produced by Encode or Encoder.
func Decode(src []byte) ([]byte, error) {
	return decode(src, nil)
}

// DecodeTokens parses a stream into its tokens without expanding them.
// The stream is fully validated, as it is by Decode.
func DecodeTokens(src []byte) ([]Token, error) {
	var tokens []Token
	if _, err := decode(src, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func decode(src []byte, tokens *[]Token) ([]byte, error) {
	r := bitstream.NewReader(src)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	size := int(h.size)
	capHint := size
	if limit := len(src) * 8; capHint > limit {
		capHint = limit
	}
	out := make([]byte, 0, capHint)

	for len(out) < size {
		flags, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: missing flag byte at output %d", ErrMalformed, len(out))
		}
		for k := 0; k < flagGroupSize && len(out) < size; k++ {
			if flags&(1<<k) == 0 {
				b, err := r.ReadByte()
				if err != nil {
					return nil, fmt.Errorf("%w: missing raw byte at output %d", ErrMalformed, len(out))
				}
				out = append(out, b)
				if tokens != nil {
					*tokens = append(*tokens, RawByte(b))
				}
				continue
			}

			distance, err := r.ReadBits(h.sBits)
			if err != nil {
				return nil, fmt.Errorf("%w: missing distance at output %d", ErrMalformed, len(out))
			}
			length, err := r.ReadBits(h.lBits)
			if err != nil {
				return nil, fmt.Errorf("%w: missing length at output %d", ErrMalformed, len(out))
			}
			if distance == 0 || distance > uint64(len(out)) {
				return nil, fmt.Errorf("%w: distance %d at output %d", ErrMalformed, distance, len(out))
			}
			if length == 0 || length > uint64(size-len(out)) {
				return nil, fmt.Errorf("%w: length %d at output %d of %d", ErrMalformed, length, len(out), size)
			}
			if tokens != nil {
				*tokens = append(*tokens, PairToken(int(distance), int(length)))
			}
			// Copy forward one byte at a time, so a pair may overlap
			// the bytes it produces.
			from := len(out) - int(distance)
			for i := 0; i < int(length); i++ {
				out = append(out, out[from+i])
			}
		}
	}

	if r.Remaining() >= 8 {
		return nil, fmt.Errorf("%w: %d bits left over", ErrTrailingData, r.Remaining())
	}
	return out, nil
}
