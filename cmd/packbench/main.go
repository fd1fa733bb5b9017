// Command packbench compresses files with the LZSS and BWT codecs of this
// module and compares them against common third-party compressors.
//
//	packbench compress [-codec lzss] [-S 4096] [-L 16] <input> <output>
//	packbench decompress [-codec lzss] <input> <output>
//	packbench bench [-codec all] [-chart ratios.svg] <pattern>...
//	packbench help [command]
//
// The PACKBENCH_LEVEL environment variable (1 to 9, default 6) sets the
// level of the third-party codecs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/packlab/pack/bwt"
	"github.com/packlab/pack/lzss"
)

type CliCommand struct {
	fn       func(args []string) error
	flagset  *flag.FlagSet
	argsdesc string // argument description
	desc     string
}

var errUsage = errors.New("bad arguments")

// Describes how to use a given command.
func PrintCmdUsage(name string, cmd CliCommand) {
	fmt.Printf("%s %s - %s\n", name, cmd.argsdesc, cmd.desc)
	count := 0
	cmd.flagset.VisitAll(func(*flag.Flag) {
		count++
	})
	if count != 0 {
		cmd.flagset.PrintDefaults()
	}
}

func PrintUsage(commands map[string]CliCommand) {
	fmt.Println()
	fmt.Println("Usage: packbench <command> [arguments]")
	fmt.Println("Commands available:")

	names := []string{}
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("    %-12s %s\n", name, commands[name].desc)
	}
}

func setupLogging(verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

func findCodec(name string) (Codec, error) {
	for _, c := range Codecs(level) {
		if c.Name == name {
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("unknown codec %q", name)
}

// compressFile writes the compressed form of input to output. LZSS uses the
// window given on the command line rather than a preset.
func compressFile(codec string, opts lzss.Options, input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	var out []byte
	switch codec {
	case "lzss":
		res, err := lzss.Encode(data, &opts)
		if err != nil {
			return err
		}
		st := res.Stats
		slog.Info("lzssStats", "window", opts.String(), "sbits", st.SBits, "lbits", st.LBits,
			"pairs", st.PairCount, "raw", st.RawCount, "longest", st.LongestMatch,
			"bitsPerSymbol", st.BitsPerSymbol())
		out = res.Data
	case "bwt":
		res := bwt.Encode(data)
		st := res.Stats
		slog.Info("bwtStats", "index", st.Index, "alphabet", st.AlphabetSize,
			"pairs", st.PairCount, "mtfEntropy", st.Entropy, "bitsPerSymbol", st.BitsPerSymbol())
		out = res.Data
	default:
		c, err := findCodec(codec)
		if err != nil {
			return err
		}
		if out, err = c.Compress(data); err != nil {
			return err
		}
	}

	slog.Info("compressed", "input", input, "size", len(data), "compressed", len(out))
	return os.WriteFile(output, out, 0o644)
}

func decompressFile(codec, input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	var out []byte
	switch codec {
	case "lzss":
		out, err = lzss.Decode(data)
	case "bwt":
		out, err = bwt.Decode(data)
	default:
		var c Codec
		if c, err = findCodec(codec); err == nil {
			out, err = c.Decompress(data)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	slog.Info("decompressed", "input", input, "size", len(out))
	return os.WriteFile(output, out, 0o644)
}

func main() {
	compressFlags := flag.NewFlagSet("compress", flag.ExitOnError)
	decompressFlags := flag.NewFlagSet("decompress", flag.ExitOnError)
	benchFlags := flag.NewFlagSet("bench", flag.ExitOnError)
	helpFlags := flag.NewFlagSet("help", flag.ExitOnError)

	defaults := lzss.DefaultOptions()
	compressCodec := compressFlags.String("codec", "lzss", "codec name (lzss, bwt, or any bench codec)")
	compressS := compressFlags.Int("S", defaults.SearchSize, "LZSS search buffer size")
	compressL := compressFlags.Int("L", defaults.LookAheadSize, "LZSS look-ahead buffer size")
	compressVerbose := compressFlags.Bool("v", false, "verbose output")

	decompressCodec := decompressFlags.String("codec", "lzss", "codec the input was compressed with")
	decompressVerbose := decompressFlags.Bool("v", false, "verbose output")

	benchCodecs := benchFlags.String("codec", "all", "comma-separated codec names; lzss selects every LZSS codec")
	benchChart := benchFlags.String("chart", "", "write an SVG chart of the ratios to this file")
	benchVerbose := benchFlags.Bool("v", false, "verbose output")

	var commands map[string]CliCommand

	cmdCompress := func(args []string) error {
		compressFlags.Parse(args)
		files := compressFlags.Args()
		if len(files) != 2 {
			return fmt.Errorf("%w: 'compress' expects <input> <output>", errUsage)
		}
		setupLogging(*compressVerbose)
		opts := lzss.Options{SearchSize: *compressS, LookAheadSize: *compressL}
		if err := opts.Validate(); err != nil {
			return err
		}
		return compressFile(*compressCodec, opts, files[0], files[1])
	}

	cmdDecompress := func(args []string) error {
		decompressFlags.Parse(args)
		files := decompressFlags.Args()
		if len(files) != 2 {
			return fmt.Errorf("%w: 'decompress' expects <input> <output>", errUsage)
		}
		setupLogging(*decompressVerbose)
		return decompressFile(*decompressCodec, files[0], files[1])
	}

	cmdBench := func(args []string) error {
		benchFlags.Parse(args)
		patterns := benchFlags.Args()
		if len(patterns) == 0 {
			return fmt.Errorf("%w: 'bench' expects at least one file pattern", errUsage)
		}
		setupLogging(*benchVerbose)

		codecs, err := SelectCodecs(*benchCodecs, level)
		if err != nil {
			return err
		}
		files, err := ExpandInputs(patterns)
		if err != nil {
			return err
		}
		slog.Info("benchStart", "files", len(files), "codecs", len(codecs), "level", level)
		results, err := Bench(files, codecs)
		if err != nil {
			return err
		}
		if err := WriteTable(os.Stdout, results); err != nil {
			return err
		}
		if *benchChart != "" {
			if err := WriteChart(*benchChart, results); err != nil {
				return err
			}
			slog.Info("chartWritten", "path", *benchChart)
		}
		for _, r := range results {
			if !r.Verified {
				return errors.New("some codecs failed to round-trip")
			}
		}
		return nil
	}

	cmdHelp := func(args []string) error {
		helpFlags.Parse(args)
		names := helpFlags.Args()
		if len(names) == 0 {
			PrintUsage(commands)
			return nil
		}
		cmd, ok := commands[names[0]]
		if !ok {
			return fmt.Errorf("%w: unknown command %q", errUsage, names[0])
		}
		PrintCmdUsage(names[0], cmd)
		return nil
	}

	commands = map[string]CliCommand{
		"compress":   {cmdCompress, compressFlags, "<input> <output>", "compress a file"},
		"decompress": {cmdDecompress, decompressFlags, "<input> <output>", "decompress a file"},
		"bench":      {cmdBench, benchFlags, "<pattern>...", "compare every codec on the matching files"},
		"help":       {cmdHelp, helpFlags, "[command]", "list commands or describe a single command"},
	}

	if len(os.Args) < 2 {
		fmt.Println("error: expected a command")
		PrintUsage(commands)
		os.Exit(1)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Println("error: unknown command")
		PrintUsage(commands)
		os.Exit(1)
	}

	if err := cmd.fn(os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			PrintUsage(commands)
		}
		os.Exit(1)
	}
}
