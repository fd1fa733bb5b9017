package lzss

import "github.com/packlab/pack"

// TreeMatchFinder is an implementation of the pack.MatchFinder interface
// that keeps every look-ahead-sized span of its search buffer in a Tree, and
// takes the longest match the tree offers at each position.
//
// Matches never reach into previous blocks, so the same TreeMatchFinder can
// be used for any block size. Zero window sizes mean DefaultOptions; invalid
// sizes panic, so check them with Options.Validate first.
type TreeMatchFinder struct {
	SearchSize    int
	LookAheadSize int

	tree Tree
}

func (f *TreeMatchFinder) Reset() {
	f.tree.Reset(nil)
}

func (f *TreeMatchFinder) options() Options {
	opts := Options{SearchSize: f.SearchSize, LookAheadSize: f.LookAheadSize}
	if opts.SearchSize == 0 && opts.LookAheadSize == 0 {
		opts = *DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	return opts
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Every match is at least 2 bytes long and at most LookAheadSize; its
// distance is between LookAheadSize and SearchSize.
func (f *TreeMatchFinder) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	opts := f.options()
	searchSize, lookAhead := opts.SearchSize, opts.LookAheadSize

	t := &f.tree
	t.Reset(src)
	w := NewWindow(len(src), searchSize, lookAhead)

	nextEmit := 0
	shift := 0
	for pos := 0; pos < len(src); pos += shift {
		if pos < lookAhead {
			// Not enough history yet for the tree to hold a full span.
			shift = 1
			w.Slide(shift)
			continue
		}

		// The spans that became complete since the last slide go in, and
		// the ones that fell off the front of the search buffer come out.
		for i := 0; i < shift; i++ {
			t.Add(w.FromDelimiter(-(lookAhead + i), lookAhead))
		}
		deletes := shift
		if w.Origin() < deletes {
			deletes = w.Origin()
		}
		for i := deletes; i >= 1; i-- {
			t.Delete(w.FromOrigin(-i))
		}

		remaining := len(src) - pos
		if remaining > lookAhead {
			remaining = lookAhead
		}
		m := t.FindBestMatch(w.FromDelimiter(0, remaining))
		if m.Length > 1 {
			dst = append(dst, pack.Match{
				Unmatched: pos - nextEmit,
				Length:    m.Length,
				Distance:  m.Distance,
			})
			shift = m.Length
			nextEmit = pos + shift
		} else {
			shift = 1
		}
		w.Slide(shift)
	}

	if nextEmit < len(src) {
		dst = append(dst, pack.Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}
