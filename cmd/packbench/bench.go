package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
)

// ExpandInputs expands glob patterns ("**" matches any number of
// directories) into a sorted list of regular files. A pattern without
// metacharacters must name an existing file.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no files match", p)
		}
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !fi.Mode().IsRegular() || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run compresses and decompresses data with c, checking that the round trip
// reproduces it.
func Run(c Codec, name string, data []byte) Result {
	r := Result{File: name, Codec: c.Name, OriginalSize: len(data)}

	start := time.Now()
	compressed, err := c.Compress(data)
	r.CompressTime = time.Since(start)
	if err != nil {
		r.Err = fmt.Errorf("compress: %w", err)
		return r
	}
	r.CompressedSize = len(compressed)

	start = time.Now()
	decompressed, err := c.Decompress(compressed)
	r.DecompressTime = time.Since(start)
	if err != nil {
		r.Err = fmt.Errorf("decompress: %w", err)
		return r
	}
	r.Verified = len(decompressed) == len(data) && xxhash.Sum64(decompressed) == xxhash.Sum64(data)
	return r
}

// Bench runs every codec over every file.
func Bench(files []string, codecs []Codec) ([]Result, error) {
	var results []Result
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(f)
		for _, c := range codecs {
			slog.Debug("benchStart", "file", name, "codec", c.Name, "size", len(data))
			r := Run(c, name, data)
			if r.Err != nil {
				slog.Warn("benchError", "file", name, "codec", c.Name, "err", r.Err)
			} else if !r.Verified {
				slog.Error("benchMismatch", "file", name, "codec", c.Name)
			}
			slog.Debug("benchDone", "file", name, "codec", c.Name,
				"ratio", r.Ratio(), "duration", r.CompressTime.String())
			results = append(results, r)
		}
	}
	return results, nil
}
