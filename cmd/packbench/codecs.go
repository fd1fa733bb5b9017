package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/packlab/pack"
	"github.com/packlab/pack/bwt"
	packlz4 "github.com/packlab/pack/lz4"
	"github.com/packlab/pack/lzss"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// A Codec is one compressor the tool can run.
type Codec struct {
	Name       string
	Compress   func(src []byte) ([]byte, error)
	Decompress func(src []byte) ([]byte, error)
}

func lzssCodec(opts lzss.Options) Codec {
	return Codec{
		Name: fmt.Sprintf("lzss-%d-%d", opts.SearchSize, opts.LookAheadSize),
		Compress: func(src []byte) ([]byte, error) {
			res, err := lzss.Encode(src, &opts)
			if err != nil {
				return nil, err
			}
			return res.Data, nil
		},
		Decompress: lzss.Decode,
	}
}

// Codecs returns every codec, ours first. level applies to the third-party
// codecs that take one; it is clamped to each codec's range.
func Codecs(level int) []Codec {
	var codecs []Codec
	for _, opts := range lzss.Presets() {
		codecs = append(codecs, lzssCodec(opts))
	}
	codecs = append(codecs,
		Codec{
			Name: "lzss-chain",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				w := &pack.Writer{
					Dest:        buf,
					MatchFinder: &pack.HashChain{SearchLen: 64, MaxDistance: 4096, MaxLength: 16},
					Encoder:     &lzss.Encoder{SearchSize: 4096, LookAheadSize: 16},
				}
				return closeWriter(buf, w, src)
			},
			Decompress: lzss.Decode,
		},
		Codec{
			Name: "bwt",
			Compress: func(src []byte) ([]byte, error) {
				return bwt.Encode(src).Data, nil
			},
			Decompress: bwt.Decode,
		},
		Codec{
			Name: "lz4-tree",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				w := packlz4.NewWriter(buf, &lzss.TreeMatchFinder{SearchSize: 32768, LookAheadSize: 64})
				if _, err := w.Write(src); err != nil {
					return nil, err
				}
				err := w.Close()
				return buf.Bytes(), err
			},
			Decompress: func(src []byte) ([]byte, error) {
				return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
			},
		},
		Codec{
			Name: "gzip",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				w, err := gzip.NewWriterLevel(buf, clamp(level, 1, 9))
				if err != nil {
					return nil, err
				}
				return closeWriter(buf, w, src)
			},
			Decompress: func(src []byte) ([]byte, error) {
				r, err := gzip.NewReader(bytes.NewReader(src))
				if err != nil {
					return nil, err
				}
				return io.ReadAll(r)
			},
		},
		Codec{
			Name: "zstd",
			Compress: func(src []byte) ([]byte, error) {
				enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
				if err != nil {
					return nil, err
				}
				defer enc.Close()
				return enc.EncodeAll(src, nil), nil
			},
			Decompress: func(src []byte) ([]byte, error) {
				dec, err := zstd.NewReader(nil)
				if err != nil {
					return nil, err
				}
				defer dec.Close()
				return dec.DecodeAll(src, nil)
			},
		},
		Codec{
			Name: "snappy",
			Compress: func(src []byte) ([]byte, error) {
				return snappy.Encode(nil, src), nil
			},
			Decompress: func(src []byte) ([]byte, error) {
				return snappy.Decode(nil, src)
			},
		},
		Codec{
			Name: "lz4",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				return closeWriter(buf, lz4.NewWriter(buf), src)
			},
			Decompress: func(src []byte) ([]byte, error) {
				return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
			},
		},
		Codec{
			Name: "brotli",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				return closeWriter(buf, brotli.NewWriterLevel(buf, clamp(level, 0, 11)), src)
			},
			Decompress: func(src []byte) ([]byte, error) {
				return io.ReadAll(brotli.NewReader(bytes.NewReader(src)))
			},
		},
		Codec{
			Name: "bzip2",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				w, err := bzip2.NewWriter(buf, &bzip2.WriterConfig{Level: clamp(level, 1, 9)})
				if err != nil {
					return nil, err
				}
				return closeWriter(buf, w, src)
			},
			Decompress: func(src []byte) ([]byte, error) {
				r, err := bzip2.NewReader(bytes.NewReader(src), nil)
				if err != nil {
					return nil, err
				}
				return io.ReadAll(r)
			},
		},
		Codec{
			Name: "lzma",
			Compress: func(src []byte) ([]byte, error) {
				buf := new(bytes.Buffer)
				w, err := lzma.NewWriter(buf)
				if err != nil {
					return nil, err
				}
				return closeWriter(buf, w, src)
			},
			Decompress: func(src []byte) ([]byte, error) {
				r, err := lzma.NewReader(bytes.NewReader(src))
				if err != nil {
					return nil, err
				}
				return io.ReadAll(r)
			},
		},
	)
	return codecs
}

// SelectCodecs picks codecs by name from a comma-separated list. "all"
// selects every codec, and "lzss" every codec writing the LZSS format.
func SelectCodecs(list string, level int) ([]Codec, error) {
	all := Codecs(level)
	if list == "" || list == "all" {
		return all, nil
	}
	var selected []Codec
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, c := range all {
			if c.Name == name || name == "lzss" && strings.HasPrefix(c.Name, "lzss-") {
				selected = append(selected, c)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown codec %q", name)
		}
	}
	return selected, nil
}

func closeWriter(buf *bytes.Buffer, w io.WriteCloser, src []byte) ([]byte, error) {
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
