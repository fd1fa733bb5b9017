package pack

import (
	"errors"
	"io"
)

var errClosed = errors.New("pack: write to closed Writer")

// A Writer compresses data written to it, using a MatchFinder and an
// Encoder, and writes the result to Dest.
//
// Input is collected into blocks of BlockSize bytes. Each full block is
// passed to the MatchFinder and then to the Encoder. If BlockSize is 0, the
// whole input is held in memory and compressed as one block when Close is
// called; formats that record the total length up front (like LZSS) need
// this.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder
	BlockSize   int

	inBuf   []byte
	outBuf  []byte
	matches []Match
	err     error
	closed  bool
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, errClosed
	}

	for len(p) > 0 {
		if w.BlockSize == 0 {
			w.inBuf = append(w.inBuf, p...)
			return n + len(p), nil
		}
		free := w.BlockSize - len(w.inBuf)
		if free > len(p) {
			free = len(p)
		}
		w.inBuf = append(w.inBuf, p[:free]...)
		p = p[free:]
		n += free
		if len(w.inBuf) == w.BlockSize && len(p) > 0 {
			if err := w.writeBlock(false); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (w *Writer) writeBlock(lastBlock bool) error {
	w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	w.outBuf = w.Encoder.Encode(w.outBuf[:0], w.inBuf, w.matches, lastBlock)
	w.inBuf = w.inBuf[:0]
	if len(w.outBuf) == 0 {
		return nil
	}
	_, w.err = w.Dest.Write(w.outBuf)
	return w.err
}

// Close compresses any buffered data as the last block and writes it to
// Dest. It does not close Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	return w.writeBlock(true)
}

// Reset discards the Writer's state and makes it equivalent to the result
// of its original state, but writing to newDest instead.
func (w *Writer) Reset(newDest io.Writer) {
	w.MatchFinder.Reset()
	w.Encoder.Reset()
	w.Dest = newDest
	w.inBuf = w.inBuf[:0]
	w.outBuf = w.outBuf[:0]
	w.matches = w.matches[:0]
	w.err = nil
	w.closed = false
}
