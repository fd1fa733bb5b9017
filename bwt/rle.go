package bwt

const (
	maxRun      = 255
	maxLiterals = 255
)

// An RLEPair is a group of literal symbols followed by a run of one
// repeated symbol. Both counts fit in a byte. Only the last pair of a
// sequence may have RunLength 0.
type RLEPair struct {
	Literals  []byte
	RunLength int
	RunSymbol byte
}

// EncodeRLE splits seq into RLEPairs. A run is emitted for 2 or more equal
// symbols, or for a single symbol when the pending literal group is full.
// Literals slice into seq.
func EncodeRLE(seq []byte) []RLEPair {
	var pairs []RLEPair
	i, litStart := 0, 0
	for i < len(seq) {
		v := seq[i]
		rep := 1
		for i+rep < len(seq) && rep < maxRun && seq[i+rep] == v {
			rep++
		}
		if rep > 1 || i-litStart == maxLiterals {
			pairs = append(pairs, RLEPair{
				Literals:  seq[litStart:i:i],
				RunLength: rep,
				RunSymbol: v,
			})
			i += rep
			litStart = i
			continue
		}
		i++
	}
	if litStart < len(seq) {
		pairs = append(pairs, RLEPair{Literals: seq[litStart:len(seq):len(seq)]})
	}
	return pairs
}

// DecodeRLE expands pairs and appends the symbols to dst.
func DecodeRLE(dst []byte, pairs []RLEPair) []byte {
	for _, p := range pairs {
		dst = append(dst, p.Literals...)
		for k := 0; k < p.RunLength; k++ {
			dst = append(dst, p.RunSymbol)
		}
	}
	return dst
}
