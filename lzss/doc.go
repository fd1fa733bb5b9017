/*
Package lzss implements LZSS compression with a binary search tree as the
match dictionary.

The encoder slides a window over the input. The search buffer holds bytes
already seen; every look-ahead-sized span starting in it is kept in a Tree
ordered by content. At each position the tree is asked for the span sharing
the longest prefix with the look-ahead buffer. Matches of 2 bytes or more
become (distance, length) pairs; anything else is a raw byte. The first
LookAheadSize bytes are always raw, since no complete span exists yet.

Format, most significant bit first:

	header: size (64 bits) | SBits (8 bits) | LBits (8 bits)
	groups: flags (8 bits) | up to 8 tokens

Bit k of a flag byte describes the k-th token of its group: 0 for a raw
byte (8 bits), 1 for a pair (SBits distance bits, then LBits length bits).
SBits and LBits are the widths needed to store SearchSize and LookAheadSize.
The last group may hold fewer than 8 tokens; decoding stops when size bytes
have been produced. The stream is padded with zero bits to a whole byte.

# Examples

Compress and decompress with the default 4096/16 window:

	res, err := lzss.Encode(data, nil)
	if err != nil {
		return err
	}
	out, err := lzss.Decode(res.Data)
	if err != nil {
		return err
	}
	// out equals data; res.Stats has pair and raw byte counts.

Use a bigger window:

	res, err := lzss.Encode(data, &lzss.Options{SearchSize: 32768, LookAheadSize: 64})

Compress through an io.Writer:

	w, err := lzss.NewWriter(f, nil)
	if err != nil {
		return err
	}
	io.Copy(w, r)
	w.Close()

Use the dictionary tree with another format's encoder:

	mf := &lzss.TreeMatchFinder{SearchSize: 32768, LookAheadSize: 64}
	matches := mf.FindMatches(nil, data)
	block := lz4.BlockEncoder{}.Encode(nil, data, matches, true)
*/
package lzss
