/*
Package bwt implements a block-sorting compressor: the Burrows-Wheeler
transform, followed by move-to-front coding of the transformed bytes and
run-length encoding of the resulting indices.

The stages are exported separately (Transform and Inverse, EncodeMTF and
DecodeMTF, EncodeRLE and DecodeRLE) and chained by Encode and Decode.

Stream format, most significant bit first:

	IBits (8 bits) | I (IBits bits)
	alphabet size (64 bits) | alphabet bytes (8 bits each, ascending)
	XBits (8 bits) | index count (64 bits) | pair count (64 bits)
	pairs: literal count (8 bits) | literals (XBits each) |
	       run length (8 bits) | run symbol (XBits)

I is the row of the input in the sorted rotation matrix and IBits is
bits.Len(I). XBits is the width of an index into the alphabet, which may be
0 when the input uses a single byte value. The stream is padded with zero
bits to a whole byte.
*/
package bwt
