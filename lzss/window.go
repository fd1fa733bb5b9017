package lzss

// A Window tracks the "search buffer | look-ahead buffer" partition of a
// source buffer as the encoder moves through it. The delimiter is the first
// byte of the look-ahead buffer and always equals origin+searchSize.
//
// The origin starts at -searchSize, so early in the input the search buffer
// lies partly before the start of the source; spans are clamped to the
// source bounds.
type Window struct {
	origin        int
	searchSize    int
	lookAheadSize int
	n             int
}

// NewWindow returns a Window over a source of n bytes whose delimiter is at
// position 0.
func NewWindow(n, searchSize, lookAheadSize int) Window {
	return Window{
		origin:        -searchSize,
		searchSize:    searchSize,
		lookAheadSize: lookAheadSize,
		n:             n,
	}
}

// Origin returns the position of the first byte of the search buffer. It is
// negative until the search buffer has filled.
func (w *Window) Origin() int { return w.origin }

// Delimiter returns the position of the first byte of the look-ahead buffer.
func (w *Window) Delimiter() int { return w.origin + w.searchSize }

// Slide moves the whole window forward by offset bytes.
func (w *Window) Slide(offset int) {
	w.origin += offset
}

// FromDelimiter returns the span of length bytes starting offset bytes from
// the delimiter.
func (w *Window) FromDelimiter(offset, length int) Span {
	return w.clamp(w.Delimiter()+offset, length)
}

// FromOrigin returns the look-ahead-sized span starting offset bytes from the
// origin.
func (w *Window) FromOrigin(offset int) Span {
	return w.clamp(w.origin+offset, w.lookAheadSize)
}

func (w *Window) clamp(pos, length int) Span {
	end := pos + length
	if pos < 0 {
		pos = 0
	}
	if end > w.n {
		end = w.n
	}
	if end < pos {
		end = pos
	}
	return Span{Pos: pos, Len: end - pos}
}
