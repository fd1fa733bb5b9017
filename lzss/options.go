package lzss

import (
	"fmt"
	"math/bits"
)

// MaxSearchSize is the largest accepted search buffer size.
const MaxSearchSize = 1 << 30

// Options configures the sliding window used by Encode and TreeMatchFinder.
type Options struct {
	// SearchSize is the size of the search buffer: how far back a match
	// may start.
	SearchSize int
	// LookAheadSize is the size of the look-ahead buffer: the longest
	// match that can be emitted. It must be smaller than SearchSize.
	LookAheadSize int
}

// DefaultOptions returns a 4096-byte search buffer with a 16-byte look-ahead.
func DefaultOptions() *Options {
	return &Options{
		SearchSize:    4096,
		LookAheadSize: 16,
	}
}

// Presets returns the window configurations the benchmark tool runs by
// default: 4096/16, 16384/32 and 32768/64.
func Presets() []Options {
	return []Options{
		{SearchSize: 4096, LookAheadSize: 16},
		{SearchSize: 16384, LookAheadSize: 32},
		{SearchSize: 32768, LookAheadSize: 64},
	}
}

// Validate reports whether the window sizes can be used for encoding.
func (o *Options) Validate() error {
	if o.SearchSize < 2 || o.SearchSize > MaxSearchSize {
		return fmt.Errorf("%w: got %d", ErrSearchSize, o.SearchSize)
	}
	if o.LookAheadSize < 2 || o.LookAheadSize >= o.SearchSize {
		return fmt.Errorf("%w: got %d with search size %d", ErrLookAheadSize, o.LookAheadSize, o.SearchSize)
	}
	return nil
}

func (o *Options) String() string {
	return fmt.Sprintf("S=%d L=%d", o.SearchSize, o.LookAheadSize)
}

// fieldBits returns the number of bits needed to store values up to max.
func fieldBits(max int) int {
	return bits.Len(uint(max))
}
