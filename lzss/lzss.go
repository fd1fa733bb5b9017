package lzss

import (
	"io"

	"github.com/packlab/pack"
)

// Result is the output of Encode.
type Result struct {
	Data  []byte
	Stats Stats
}

// Encode compresses data with a TreeMatchFinder and the LZSS bit format.
// Options nil means DefaultOptions().
func Encode(data []byte, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mf := TreeMatchFinder{SearchSize: opts.SearchSize, LookAheadSize: opts.LookAheadSize}
	enc := Encoder{SearchSize: opts.SearchSize, LookAheadSize: opts.LookAheadSize}
	matches := mf.FindMatches(nil, data)
	out := enc.Encode(nil, data, matches, true)
	return &Result{Data: out, Stats: enc.Stats}, nil
}

// Tokenize returns the token sequence Encode would write for data.
func Tokenize(data []byte, opts *Options) ([]Token, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mf := TreeMatchFinder{SearchSize: opts.SearchSize, LookAheadSize: opts.LookAheadSize}
	matches := mf.FindMatches(nil, data)
	return AppendTokens(nil, data, matches, opts.SearchSize, opts.LookAheadSize), nil
}

// NewWriter returns a pack.Writer that compresses everything written to it
// and writes one LZSS stream to dst on Close. Options nil means
// DefaultOptions().
func NewWriter(dst io.Writer, opts *Options) (*pack.Writer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &pack.Writer{
		Dest:        dst,
		MatchFinder: &TreeMatchFinder{SearchSize: opts.SearchSize, LookAheadSize: opts.LookAheadSize},
		Encoder:     &Encoder{SearchSize: opts.SearchSize, LookAheadSize: opts.LookAheadSize},
	}, nil
}
