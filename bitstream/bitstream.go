// Package bitstream packs and unpacks integer fields of arbitrary bit width
// into a byte buffer, on top of github.com/icza/bitio.
//
// Fields are stored most-significant bit first, and a field may straddle any
// number of bytes, so a 13-bit distance followed by a 5-bit length occupies
// exactly 18 bits. The final partial byte is padded with zero bits.
package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// ErrUnexpectedEnd is returned when a read needs more bits than the buffer
// holds. It wraps io.ErrUnexpectedEOF.
var ErrUnexpectedEnd = fmt.Errorf("bitstream: %w", io.ErrUnexpectedEOF)

var errBitCount = errors.New("bitstream: bit count out of range")

// A Writer appends bit fields to a growing byte buffer.
// The zero value is ready to use.
type Writer struct {
	buf *bytes.Buffer
	bw  *bitio.Writer
	n   int
}

// NewWriter returns a Writer that appends to dst.
func NewWriter(dst []byte) *Writer {
	w := &Writer{buf: bytes.NewBuffer(dst), n: len(dst) * 8}
	w.bw = bitio.NewWriter(w.buf)
	return w
}

func (w *Writer) init() {
	if w.bw == nil {
		w.buf = new(bytes.Buffer)
		w.bw = bitio.NewWriter(w.buf)
	}
}

// WriteBits appends the low n bits of v, most significant first.
// n must be between 0 and 64.
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic(errBitCount)
	}
	if n == 0 {
		return
	}
	w.init()
	if n < 64 {
		v &= 1<<n - 1
	}
	// Writes to a bytes.Buffer cannot fail.
	w.bw.TryWriteBits(v, uint8(n))
	w.n += n
}

// WriteBool appends a single bit.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// WriteByte appends all 8 bits of c. It always returns nil.
func (w *Writer) WriteByte(c byte) error {
	w.WriteBits(uint64(c), 8)
	return nil
}

// WriteUint64 appends v as a 64-bit field.
func (w *Writer) WriteUint64(v uint64) {
	w.WriteBits(v, 64)
}

// Len returns the number of bits written so far, including bits that were
// already in the buffer passed to NewWriter.
func (w *Writer) Len() int {
	return w.n
}

// Bytes pads the final partial byte with zeros and returns the buffer.
// Fields written afterwards start on a new byte.
func (w *Writer) Bytes() []byte {
	w.init()
	if skipped, _ := w.bw.Align(); skipped > 0 {
		w.n += int(skipped)
	}
	return w.buf.Bytes()
}

// A Reader reads bit fields from a byte buffer.
type Reader struct {
	br   *bitio.Reader
	size int // in bits
	pos  int
}

// NewReader returns a Reader that reads from the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{
		br:   bitio.NewReader(bytes.NewReader(buf)),
		size: len(buf) * 8,
	}
}

// ReadBits reads an n-bit field. n must be between 0 and 64.
// A failed read consumes the rest of the buffer.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic(errBitCount)
	}
	if n > r.Remaining() {
		r.pos = r.size
		return 0, ErrUnexpectedEnd
	}
	if n == 0 {
		return 0, nil
	}
	v, err := r.br.ReadBits(uint8(n))
	if err != nil {
		r.pos = r.size
		return 0, ErrUnexpectedEnd
	}
	r.pos += n
	return v, nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadByte reads an 8-bit field.
func (r *Reader) ReadByte() (byte, error) {
	v, err := r.ReadBits(8)
	return byte(v), err
}

// ReadUint64 reads a 64-bit field.
func (r *Reader) ReadUint64() (uint64, error) {
	return r.ReadBits(64)
}

// Remaining returns the number of unread bits, padding included.
func (r *Reader) Remaining() int {
	return r.size - r.pos
}

// Offset returns the number of bits read so far.
func (r *Reader) Offset() int {
	return r.pos
}
