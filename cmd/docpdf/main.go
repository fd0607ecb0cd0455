package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/tradiedocs/docpdf/documents"
	"github.com/tradiedocs/docpdf/layout"
	"github.com/tradiedocs/docpdf/observability"
)

// Version is set at build time via ldflags.
var Version = "dev"

type cliFlags struct {
	output  string
	font    string
	verbose bool
	version bool
}

func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("docpdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default derived from document number)")
	fs.StringVar(&f.font, "font", "", "TrueType font file to embed for body text")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log layout progress to stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: docpdf [flags] <job.yaml>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Renders a trade document (quote, swms, variation, claim, handover)")
	fmt.Fprintln(w, "from a YAML job file to a PDF.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "flags:")
	fmt.Fprintln(w, "  -o, --output string   output PDF path")
	fmt.Fprintln(w, "      --font string     TrueType font file to embed")
	fmt.Fprintln(w, "  -v, --verbose         log layout progress to stderr")
	fmt.Fprintln(w, "      --version         print version and exit")
}

func run(flags *cliFlags, args []string) error {
	if len(args) != 1 {
		printUsage(os.Stderr)
		return fmt.Errorf("expected one job file, got %d arguments", len(args))
	}

	job, err := loadJob(args[0])
	if err != nil {
		return err
	}

	var opts []layout.Option
	if flags.verbose {
		opts = append(opts, layout.WithLogger(observability.SlogLogger{
			L: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		}))
	}
	if flags.font != "" {
		data, err := os.ReadFile(flags.font)
		if err != nil {
			return fmt.Errorf("read font: %w", err)
		}
		opts = append(opts, layout.WithTrueTypeFont("Body", data))
	}

	pdf, number, err := job.render(opts...)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Type, err)
	}

	out := flags.output
	if out == "" {
		out = job.Output
	}
	if out == "" {
		out = documents.Filename(job.Type, number)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Created %s (%d bytes)\n", out, len(pdf))
	return nil
}

func main() {
	flags, args, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if flags.version {
		fmt.Println("docpdf " + Version)
		return
	}
	if err := run(flags, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
