package lzss

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/packlab/pack"
)

const sampleText = `It is a truth universally acknowledged, that a single man in possession
of a good fortune, must be in want of a wife. However little known the
feelings or views of such a man may be on his first entering a
neighbourhood, this truth is so well fixed in the minds of the surrounding
families, that he is considered the rightful property of some one or other
of their daughters.`

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 20000)
	rng.Read(random)

	allBytes := make([]byte, 0, 1024)
	for i := 0; i < 4; i++ {
		for b := 0; b < 256; b++ {
			allBytes = append(allBytes, byte(b))
		}
	}

	return map[string][]byte{
		"empty":      {},
		"single":     {'x'},
		"two":        []byte("xy"),
		"repetitive": bytes.Repeat([]byte("a"), 5000),
		"pattern":    bytes.Repeat([]byte("abcdefgh"), 700),
		"text":       []byte(strings.Repeat(sampleText, 20)),
		"random":     random,
		"allBytes":   allBytes,
		"sorted":     []byte(strings.Repeat("aaaabbbbccccddddeeee", 50)),
	}
}

func TestRoundTrip(t *testing.T) {
	configs := append(Presets(),
		Options{SearchSize: 3, LookAheadSize: 2},
		Options{SearchSize: 16, LookAheadSize: 15},
		Options{SearchSize: 100, LookAheadSize: 7},
		Options{SearchSize: 1000, LookAheadSize: 999},
	)
	for name, data := range testInputs() {
		for _, opts := range configs {
			opts := opts
			res, err := Encode(data, &opts)
			if err != nil {
				t.Fatalf("%s %v: %v", name, &opts, err)
			}
			dec, err := Decode(res.Data)
			if err != nil {
				t.Fatalf("%s %v: decode: %v", name, &opts, err)
			}
			if !bytes.Equal(dec, data) {
				t.Fatalf("%s %v: decoded output doesn't match", name, &opts)
			}
			if res.Stats.OriginalSize != len(data) || res.Stats.CompressedSize != len(res.Data) {
				t.Errorf("%s %v: stats sizes %+v", name, &opts, res.Stats)
			}
		}
	}
}

func TestCompresses(t *testing.T) {
	data := []byte(strings.Repeat(sampleText, 20))
	res, err := Encode(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Data) >= len(data)/2 {
		t.Errorf("compressed %d bytes to %d", len(data), len(res.Data))
	}
	if res.Stats.BitsPerSymbol() >= 4 {
		t.Errorf("bits per symbol = %.3f", res.Stats.BitsPerSymbol())
	}
}

// distinctFiller returns n bytes, all different from each other and from
// "WXYZ".
func distinctFiller(from, n int) []byte {
	const alphabet = "abcdefghijklmnopqrstuvABCDEFGHIJKLMNOPQRSTUV0123456789!#$%&()*+,-./:;<=>?@[]^_{|}~"
	return []byte(alphabet[from : from+n])
}

func TestRepeatedSubstring(t *testing.T) {
	var data []byte
	data = append(data, distinctFiller(0, 20)...)
	data = append(data, "WXYZ"...)
	data = append(data, distinctFiller(20, 30)...)
	second := len(data)
	data = append(data, "WXYZ"...)
	data = append(data, distinctFiller(50, 10)...)
	const gap = 34

	tokens, err := Tokenize(data, &Options{SearchSize: 256, LookAheadSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	pos := 0
	found := false
	for _, tok := range tokens {
		if pos == second {
			if !tok.Pair || tok.Distance != gap || tok.Length < 4 {
				t.Fatalf("token at second occurrence = %v, want <%d,>=4>", tok, gap)
			}
			found = true
		} else if tok.Pair {
			t.Errorf("unexpected pair %v at %d", tok, pos)
		}
		pos += tok.Size()
	}
	if !found {
		t.Fatalf("no token starts at %d", second)
	}

	mf := &TreeMatchFinder{SearchSize: 256, LookAheadSize: 16}
	text := pack.TextEncoder{}.Encode(nil, data, mf.FindMatches(nil, data), true)
	if !bytes.Contains(text, []byte("<34,4>")) {
		t.Errorf("text encoding %q has no <34,4>", text)
	}
}

func TestWarmUpIsRaw(t *testing.T) {
	data := bytes.Repeat([]byte("ab"), 100)
	tokens, err := Tokenize(data, &Options{SearchSize: 64, LookAheadSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if tokens[i].Pair {
			t.Fatalf("token %d is a pair during warm-up", i)
		}
	}
	if !tokens[8].Pair {
		t.Fatalf("token 8 = %v, want a pair once the search buffer has history", tokens[8])
	}
	for _, tok := range tokens {
		if tok.Pair && (tok.Distance < 8 || tok.Distance > 64 || tok.Length > 8 || tok.Length < 2) {
			t.Fatalf("pair %v outside the window", tok)
		}
	}
}

func TestHeader(t *testing.T) {
	data := []byte(sampleText)
	res, err := Encode(data, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if size := binary.BigEndian.Uint64(res.Data); size != uint64(len(data)) {
		t.Errorf("header size = %d, want %d", size, len(data))
	}
	if res.Data[8] != 13 || res.Data[9] != 5 {
		t.Errorf("field widths = %d, %d; want 13, 5", res.Data[8], res.Data[9])
	}
	if res.Stats.SBits != 13 || res.Stats.LBits != 5 {
		t.Errorf("stats widths = %d, %d", res.Stats.SBits, res.Stats.LBits)
	}
}

func TestStats(t *testing.T) {
	data := []byte(strings.Repeat(sampleText, 3))
	res, err := Encode(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := DecodeTokens(res.Data)
	if err != nil {
		t.Fatal(err)
	}
	var pairs, raws, longest, total int
	for _, tok := range tokens {
		total += tok.Size()
		if tok.Pair {
			pairs++
			longest = max(longest, tok.Length)
		} else {
			raws++
		}
	}
	st := res.Stats
	if st.PairCount != pairs || st.RawCount != raws || st.LongestMatch != longest {
		t.Errorf("stats %+v, tokens: %d pairs, %d raw, longest %d", st, pairs, raws, longest)
	}
	if total != len(data) {
		t.Errorf("tokens cover %d bytes, want %d", total, len(data))
	}
}

func TestPartialFinalGroup(t *testing.T) {
	// 9 raw tokens: one full group and one group with a single token.
	data := []byte("abcdefghi")
	res, err := Encode(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := 10 + 1 + 8 + 1 + 1; len(res.Data) != want {
		t.Errorf("stream is %d bytes, want %d", len(res.Data), want)
	}
	dec, err := Decode(res.Data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("got %q", dec)
	}
}

func TestOverlappingPair(t *testing.T) {
	// Hand-built stream: 'a', then a pair copying 9 bytes from 1 back.
	tokens := []Token{RawByte('a'), PairToken(1, 9)}
	stream := writeTokens(nil, tokens, 10, 4, 4)
	dec, err := Decode(stream)
	if err != nil {
		t.Fatal(err)
	}
	if string(dec) != "aaaaaaaaaa" {
		t.Fatalf("got %q", dec)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		opts Options
		err  error
	}{
		{Options{SearchSize: 4096, LookAheadSize: 16}, nil},
		{Options{SearchSize: 3, LookAheadSize: 2}, nil},
		{Options{SearchSize: 1, LookAheadSize: 0}, ErrSearchSize},
		{Options{SearchSize: 0, LookAheadSize: 16}, ErrSearchSize},
		{Options{SearchSize: MaxSearchSize + 1, LookAheadSize: 16}, ErrSearchSize},
		{Options{SearchSize: 16, LookAheadSize: 16}, ErrLookAheadSize},
		{Options{SearchSize: 16, LookAheadSize: 32}, ErrLookAheadSize},
		{Options{SearchSize: 16, LookAheadSize: 1}, ErrLookAheadSize},
	}
	for _, tt := range tests {
		err := tt.opts.Validate()
		if !errors.Is(err, tt.err) {
			t.Errorf("Validate(%v) = %v, want %v", &tt.opts, err, tt.err)
		}
		if tt.err != nil {
			if _, err := Encode([]byte("data"), &tt.opts); !errors.Is(err, tt.err) {
				t.Errorf("Encode with %v: %v, want %v", &tt.opts, err, tt.err)
			}
		}
	}
}

func TestMalformed(t *testing.T) {
	good, err := Encode([]byte(strings.Repeat(sampleText, 2)), nil)
	if err != nil {
		t.Fatal(err)
	}

	badWidths := append([]byte(nil), good.Data...)
	badWidths[8] = 0

	hugeSize := append([]byte(nil), good.Data...)
	binary.BigEndian.PutUint64(hugeSize, 1<<60)

	badDistance := writeTokens(nil, []Token{RawByte('a'), PairToken(5, 2)}, 3, 4, 4)
	zeroLength := writeTokens(nil, []Token{RawByte('a'), PairToken(1, 0)}, 3, 4, 4)
	longPair := writeTokens(nil, []Token{RawByte('a'), PairToken(1, 5)}, 3, 4, 4)

	tests := map[string]struct {
		data []byte
		err  error
	}{
		"empty":       {nil, ErrMalformed},
		"short":       {good.Data[:5], ErrMalformed},
		"truncated":   {good.Data[:len(good.Data)-3], ErrMalformed},
		"badWidths":   {badWidths, ErrMalformed},
		"hugeSize":    {hugeSize, ErrMalformed},
		"badDistance": {badDistance, ErrMalformed},
		"zeroLength":  {zeroLength, ErrMalformed},
		"longPair":    {longPair, ErrMalformed},
		"trailing":    {append(append([]byte(nil), good.Data...), 0, 0), ErrTrailingData},
	}
	for name, tt := range tests {
		if _, err := Decode(tt.data); !errors.Is(err, tt.err) {
			t.Errorf("%s: got %v, want %v", name, err, tt.err)
		}
	}
}

func TestWriter(t *testing.T) {
	data := []byte(strings.Repeat(sampleText, 10))
	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, &Options{SearchSize: 1024, LookAheadSize: 32})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data); i += 100 {
		end := min(i+100, len(data))
		if _, err := w.Write(data[i:end]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	res, err := Encode(data, &Options{SearchSize: 1024, LookAheadSize: 32})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), res.Data) {
		t.Fatal("Writer output differs from Encode")
	}
}

func TestEncoderMultipleBlocks(t *testing.T) {
	data := []byte(strings.Repeat(sampleText, 10))
	buf := new(bytes.Buffer)
	enc := &Encoder{SearchSize: 4096, LookAheadSize: 16}
	w := &pack.Writer{
		Dest:        buf,
		MatchFinder: &TreeMatchFinder{SearchSize: 2048, LookAheadSize: 64},
		Encoder:     enc,
		BlockSize:   1000,
	}
	w.Write(data)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	dec, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatal("decompressed output doesn't match")
	}
	if enc.Stats.LongestMatch > 16 {
		t.Errorf("longest match %d does not fit the encoder's look-ahead", enc.Stats.LongestMatch)
	}
	if enc.Stats.OriginalSize != len(data) {
		t.Errorf("OriginalSize = %d", enc.Stats.OriginalSize)
	}
}

func TestAppendTokensSplitsAndDrops(t *testing.T) {
	src := []byte("abcdefghij" + "abcdefghij")
	matches := []pack.Match{{Unmatched: 10, Length: 10, Distance: 10}}

	tokens := AppendTokens(nil, src, matches, 16, 4)
	want := []Token{PairToken(10, 4), PairToken(10, 4), PairToken(10, 2)}
	if got := tokens[10:]; !equalTokens(got, want) {
		t.Errorf("split tokens = %v, want %v", got, want)
	}

	tokens = AppendTokens(nil, src, matches, 8, 4)
	for i, tok := range tokens {
		if tok.Pair {
			t.Fatalf("token %d = %v, want raw bytes for a too-distant match", i, tok)
		}
	}
	if len(tokens) != len(src) {
		t.Fatalf("%d tokens for %d bytes", len(tokens), len(src))
	}

	tokens = AppendTokens(nil, src, matches, 16, 3)
	last := tokens[len(tokens)-1]
	if last.Pair {
		t.Errorf("a 1-byte remainder became %v", last)
	}
}

func TestTreeConsistentAfterEncoding(t *testing.T) {
	for name, data := range testInputs() {
		mf := &TreeMatchFinder{SearchSize: 64, LookAheadSize: 8}
		mf.FindMatches(nil, data)
		if err := mf.tree.check(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if len(data) > 100 && mf.tree.Len() > 64 {
			t.Errorf("%s: %d nodes in a 64-byte search buffer", name, mf.tree.Len())
		}
	}
}

func equalTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func BenchmarkEncode(b *testing.B) {
	data := []byte(strings.Repeat(sampleText, 200))
	for _, opts := range Presets() {
		opts := opts
		b.Run(opts.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			res, _ := Encode(data, &opts)
			b.ReportMetric(float64(len(data))/float64(len(res.Data)), "ratio")
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				Encode(data, &opts)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	data := []byte(strings.Repeat(sampleText, 200))
	res, err := Encode(data, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(res.Data)
	}
}
