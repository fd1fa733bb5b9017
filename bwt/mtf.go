package bwt

import "fmt"

// Alphabet returns the distinct bytes of data in ascending order.
func Alphabet(data []byte) []byte {
	var seen [256]bool
	for _, c := range data {
		seen[c] = true
	}
	var alphabet []byte
	for c, ok := range seen {
		if ok {
			alphabet = append(alphabet, byte(c))
		}
	}
	return alphabet
}

// moveToFront is the recency list shared by the MTF encoder and decoder.
type moveToFront struct {
	dictBuf [256]byte
	dictLen int
}

func (m *moveToFront) init(alphabet []byte) {
	if len(alphabet) > len(m.dictBuf) {
		panic("bwt: alphabet too large")
	}
	m.dictLen = copy(m.dictBuf[:], alphabet)
}

// promote moves the entry at idx to the front, shifting the ones before it
// back by one.
func (m *moveToFront) promote(idx int) byte {
	dict := m.dictBuf[:m.dictLen]
	val := dict[idx]
	copy(dict[1:idx+1], dict[:idx])
	dict[0] = val
	return val
}

// EncodeMTF replaces every byte of data with its current position in a list
// initialised to alphabet, moving the byte to the front after each use. The
// alphabet must contain every byte of data; Alphabet(data) does.
func EncodeMTF(data, alphabet []byte) []byte {
	var m moveToFront
	m.init(alphabet)
	dict := m.dictBuf[:m.dictLen]

	indices := make([]byte, len(data))
	for i, c := range data {
		idx := -1
		for di, dv := range dict {
			if dv == c {
				idx = di
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("bwt: byte %#x is not in the alphabet", c))
		}
		indices[i] = byte(idx)
		m.promote(idx)
	}
	return indices
}

// DecodeMTF reverses EncodeMTF, given the same alphabet.
func DecodeMTF(indices, alphabet []byte) ([]byte, error) {
	var m moveToFront
	m.init(alphabet)

	data := make([]byte, len(indices))
	for i, idx := range indices {
		if int(idx) >= m.dictLen {
			return nil, fmt.Errorf("%w: index %d with %d symbols", ErrMalformed, idx, m.dictLen)
		}
		data[i] = m.promote(int(idx))
	}
	return data, nil
}
