package bwt

import "errors"

var (
	// ErrIndex is returned by Inverse when the rotation index does not
	// address a row of the rotation matrix.
	ErrIndex = errors.New("bwt: rotation index out of range")
	// ErrMalformed is returned when an encoded stream is truncated or its
	// fields are inconsistent.
	ErrMalformed = errors.New("bwt: malformed stream")
	// ErrTrailingData is returned when whole bytes follow the end of a
	// stream.
	ErrTrailingData = errors.New("bwt: trailing bytes after stream")
)
