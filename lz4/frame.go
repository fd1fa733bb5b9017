package lz4

import (
	"encoding/binary"
	"hash"
	"io"

	"github.com/packlab/pack"
	"github.com/pierrec/xxHash/xxHash32"
)

const (
	frameMagic = 0x184D2204

	// MaxBlockSize is the block size declared in the frame header.
	MaxBlockSize = 4 << 20

	uncompressedBit = 1 << 31
)

// A FrameEncoder implements the pack.Encoder interface,
// writing in the LZ4 frame format with a content checksum.
// Blocks must not be larger than MaxBlockSize. A block that does not shrink
// is stored uncompressed.
type FrameEncoder struct {
	hasher      hash.Hash32
	blockBuffer []byte
}

func (f *FrameEncoder) Reset() {
	f.hasher = nil
}

func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if len(src) > MaxBlockSize {
		panic("lz4: block too large")
	}
	if f.hasher == nil {
		f.hasher = xxHash32.New(0)
		dst = binary.LittleEndian.AppendUint32(dst, frameMagic)
		// Version 1, content checksum, 4 MB blocks; header checksum 0x1d.
		dst = append(dst, 0x44, 0x70, 0x1d)
	}

	if len(src) > 0 {
		var be BlockEncoder
		f.blockBuffer = be.Encode(f.blockBuffer[:0], src, matches, lastBlock)
		if len(f.blockBuffer) < len(src) {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
			dst = append(dst, f.blockBuffer...)
		} else {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(src))|uncompressedBit)
			dst = append(dst, src...)
		}
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
		f.hasher = nil
	}
	return dst
}

// NewWriter returns a pack.Writer that writes an LZ4 frame to dst, finding
// matches with mf.
func NewWriter(dst io.Writer, mf pack.MatchFinder) *pack.Writer {
	return &pack.Writer{
		Dest:        dst,
		MatchFinder: mf,
		Encoder:     new(FrameEncoder),
		BlockSize:   MaxBlockSize,
	}
}
