package lzss

import "errors"

// Errors returned by Validate, Encode and Decode. They are wrapped with
// details, so test for them with errors.Is.
var (
	ErrSearchSize    = errors.New("lzss: search buffer size must be between 2 and 1<<30")
	ErrLookAheadSize = errors.New("lzss: look-ahead buffer size must be at least 2 and smaller than the search buffer")
	ErrMalformed     = errors.New("lzss: malformed stream")
	ErrTrailingData  = errors.New("lzss: trailing bytes after stream")
)
