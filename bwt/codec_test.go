package bwt

import (
	"bytes"
	"errors"
	"math/bits"
	"math/rand"
	"strings"
	"testing"
)

const sampleText = `It is a truth universally acknowledged, that a single man in possession
of a good fortune, must be in want of a wife. However little known the
feelings or views of such a man may be on his first entering a
neighbourhood, this truth is so well fixed in the minds of the surrounding
families, that he is considered the rightful property of some one or other
of their daughters.`

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 5000)
	rng.Read(random)

	allBytes := make([]byte, 0, 512)
	for i := 0; i < 2; i++ {
		for b := 0; b < 256; b++ {
			allBytes = append(allBytes, byte(b))
		}
	}

	return map[string][]byte{
		"empty":      {},
		"single":     {'x'},
		"swissMiss":  []byte("swiss miss"),
		"repetitive": bytes.Repeat([]byte("a"), 2000),
		"longRuns":   []byte(strings.Repeat("a", 600) + strings.Repeat("b", 300) + strings.Repeat("a", 256)),
		"text":       []byte(strings.Repeat(sampleText, 5)),
		"random":     random,
		"allBytes":   allBytes,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, data := range testInputs() {
		res := Encode(data)
		got, err := Decode(res.Data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("%s: decoded output doesn't match", name)
		}
	}
}

func TestCompresses(t *testing.T) {
	data := []byte(strings.Repeat(sampleText, 5))
	res := Encode(data)
	if len(res.Data) >= len(data) {
		t.Errorf("compressed %d bytes to %d", len(data), len(res.Data))
	}
	if got := Encode(bytes.Repeat([]byte("ab"), 1000)); len(got.Data) > 100 {
		t.Errorf("2000 bytes of \"ab\" compressed to %d bytes", len(got.Data))
	}
}

func TestStats(t *testing.T) {
	data := []byte(sampleText)
	res := Encode(data)
	st := res.Stats

	last, index := Transform(nil, data)
	alphabet := Alphabet(last)
	pairs := EncodeRLE(EncodeMTF(last, alphabet))
	if st.Index != index || st.AlphabetSize != len(alphabet) || st.PairCount != len(pairs) {
		t.Errorf("stats %+v; want index %d, %d symbols, %d pairs", st, index, len(alphabet), len(pairs))
	}
	if st.OriginalSize != len(data) || st.CompressedSize != len(res.Data) {
		t.Errorf("stats sizes %+v", st)
	}
	if st.Entropy <= 0 || st.Entropy > 8 {
		t.Errorf("entropy = %f", st.Entropy)
	}
	if bps := st.BitsPerSymbol(); bps <= 0 || bps >= 8 {
		t.Errorf("bits per symbol = %f", bps)
	}

	if e := Encode(bytes.Repeat([]byte{'z'}, 100)).Stats.Entropy; e != 0 {
		t.Errorf("entropy of a single repeated byte = %f", e)
	}
}

func TestHeader(t *testing.T) {
	data := []byte("swiss miss")
	res := Encode(data)
	_, index := Transform(nil, data)
	if int(res.Data[0]) != bits.Len(uint(index)) {
		t.Errorf("index width = %d for index %d", res.Data[0], index)
	}
}

func TestMalformed(t *testing.T) {
	good := Encode([]byte(sampleText)).Data

	// Fields after the index are not byte-aligned, so corrupt streams are
	// built with writeStream.
	hand := func(index int, alphabet []byte, count int, pairs []RLEPair) []byte {
		return writeStream(nil, index, alphabet, count, pairs)
	}
	valid := hand(1, []byte("ab"), 3, []RLEPair{{Literals: []byte{0, 1, 1}}})
	if _, err := Decode(valid); err != nil {
		t.Fatalf("hand-built stream: %v", err)
	}

	tests := map[string]struct {
		data []byte
		err  error
	}{
		"empty":       {nil, ErrMalformed},
		"truncated":   {good[:len(good)-4], ErrMalformed},
		"header only": {good[:12], ErrMalformed},
		"index >= n":  {hand(3, []byte("ab"), 3, []RLEPair{{Literals: []byte{0, 1, 1}}}), ErrMalformed},
		"unsorted":    {hand(1, []byte("ba"), 3, []RLEPair{{Literals: []byte{0, 1, 1}}}), ErrMalformed},
		"short count": {hand(1, []byte("ab"), 2, []RLEPair{{Literals: []byte{0, 1, 1}}}), ErrMalformed},
		"long count":  {hand(1, []byte("ab"), 4, []RLEPair{{Literals: []byte{0, 1, 1}}}), ErrMalformed},
		"bad symbol":  {hand(1, []byte("abc"), 3, []RLEPair{{Literals: []byte{0, 3, 1}}}), ErrMalformed},
		"no alphabet": {hand(0, nil, 0, []RLEPair{{RunLength: 2}}), ErrMalformed},
		"cut counts":  {valid[:20], ErrMalformed},
		"trailing":    {append(append([]byte(nil), valid...), 0, 0), ErrTrailingData},
	}
	for name, tt := range tests {
		if _, err := Decode(tt.data); !errors.Is(err, tt.err) {
			t.Errorf("%s: got %v, want %v", name, err, tt.err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	data := []byte(strings.Repeat(sampleText, 50))
	b.SetBytes(int64(len(data)))
	res := Encode(data)
	b.ReportMetric(float64(len(data))/float64(len(res.Data)), "ratio")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(data)
	}
}

func BenchmarkDecode(b *testing.B) {
	data := []byte(strings.Repeat(sampleText, 50))
	res := Encode(data)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(res.Data)
	}
}
