package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// A Result is one codec's run over one file.
type Result struct {
	File           string
	Codec          string
	OriginalSize   int
	CompressedSize int
	CompressTime   time.Duration
	DecompressTime time.Duration
	Verified       bool
	Err            error
}

// Ratio returns original size over compressed size.
func (r Result) Ratio() float64 {
	if r.CompressedSize == 0 {
		return 0
	}
	return float64(r.OriginalSize) / float64(r.CompressedSize)
}

// BitsPerSymbol returns compressed bits per original byte.
func (r Result) BitsPerSymbol() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.CompressedSize*8) / float64(r.OriginalSize)
}

// Speed returns the compression speed in MB/s.
func (r Result) Speed() float64 {
	if r.CompressTime <= 0 {
		return 0
	}
	return float64(r.OriginalSize) / 1e6 / r.CompressTime.Seconds()
}

func (r Result) status() string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.Verified:
		return "ok"
	}
	return "MISMATCH"
}

// WriteTable prints one line per result.
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "file\tcodec\tsize\tcompressed\tratio\tbits/sym\tMB/s\tstatus\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%.3f\t%.2f\t%s\t\n",
			r.File, r.Codec, r.OriginalSize, r.CompressedSize,
			r.Ratio(), r.BitsPerSymbol(), r.Speed(), r.status())
	}
	return tw.Flush()
}

// codecTotals sums sizes per codec over all files, in first-seen order.
func codecTotals(results []Result) (names []string, ratios []float64) {
	orig := map[string]int{}
	comp := map[string]int{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if _, ok := orig[r.Codec]; !ok {
			names = append(names, r.Codec)
		}
		orig[r.Codec] += r.OriginalSize
		comp[r.Codec] += r.CompressedSize
	}
	for _, name := range names {
		ratio := 0.0
		if comp[name] > 0 {
			ratio = float64(orig[name]) / float64(comp[name])
		}
		ratios = append(ratios, ratio)
	}
	return names, ratios
}

// WriteChart renders the overall compression ratio of each codec as an SVG
// bar chart, best first.
func WriteChart(path string, results []Result) error {
	names, ratios := codecTotals(results)
	bars := make([]chart.Value, len(names))
	for i := range names {
		bars[i] = chart.Value{Label: names[i], Value: ratios[i]}
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Value > bars[j].Value
	})

	graph := chart.BarChart{
		Title:    "Compression ratio",
		Height:   512,
		Width:    max(512, 80*len(bars)),
		BarWidth: 48,
		Bars:     bars,
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.SVG, fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
