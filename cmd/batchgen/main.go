// Command batchgen turns a directory of text files into OpenAI batch
// API JSONL request files, splitting output across files to stay under
// the batch size limits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lzhao/llmbatch"
	"github.com/lzhao/llmbatch/fs"
	"github.com/lzhao/llmbatch/jsonl"
	"github.com/lzhao/llmbatch/lipgloss"
)

// ErrNoInputFiles is returned when the input directory has no matching files.
var ErrNoInputFiles = errors.New("no input files found")

// ErrNoBatches is returned when input files matched but every record
// was skipped or rejected, so no batch file was produced.
var ErrNoBatches = errors.New("no batches produced")

const usage = `usage: batchgen [flags] <model> <temperature> <system_prompt> <input_dir>
       batchgen preview <batch.jsonl>

Flags:
  -e, -extensions  comma-separated input extensions (default "txt")
  -o, -output      output directory (default: input_dir)
  -n, -name        output base name (default "batch")
`

// Options are the parsed command line arguments.
type Options struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	InputDir     string
	Extensions   []string
	OutputDir    string
	BaseName     string
}

// App encapsulates the generator pipeline for testing.
type App struct {
	Scanner llmbatch.Scanner
	Reader  llmbatch.ContentReader
	Writer  llmbatch.BatchWriter
	Limits  llmbatch.Limits
	Logger  *logrus.Logger
	Out     io.Writer
}

// Run scans, builds, splits and writes, reporting a summary. It fails
// when no input files match or when nothing could be written.
func (a *App) Run(opts Options) error {
	paths, err := a.Scanner.Scan(opts.InputDir, opts.Extensions)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", opts.InputDir, err)
	}
	if len(paths) == 0 {
		return ErrNoInputFiles
	}
	a.Logger.WithField("files", len(paths)).Info("building requests")

	builder := llmbatch.NewBuilder(a.Reader)
	built := builder.Build(paths, llmbatch.RequestSpec{
		Model:        opts.Model,
		Temperature:  opts.Temperature,
		SystemPrompt: opts.SystemPrompt,
	})
	for _, skipped := range built.Skipped {
		a.Logger.WithError(skipped.Err).WithField("file", skipped.Path).Warn("skipping unreadable file")
	}

	split := llmbatch.Split(built.Records, a.Limits)
	for _, rejected := range split.Rejected {
		a.Logger.WithFields(logrus.Fields{
			"custom_id": rejected.CustomID,
			"size":      rejected.Size,
		}).Warn("request exceeds line size limit, skipping")
	}

	written, writeErr := a.Writer.Write(opts.OutputDir, opts.BaseName, split.Batches)
	if writeErr != nil {
		a.Logger.WithError(writeErr).Error("some batches could not be written")
	}
	if len(written) == 0 {
		if writeErr != nil {
			return writeErr
		}
		return ErrNoBatches
	}

	a.printSummary(built, split, written)
	return nil
}

func (a *App) printSummary(built llmbatch.BuildResult, split llmbatch.SplitResult, written []string) {
	styles := lipgloss.DefaultTheme().Styles()
	success := styled(styles.Success)
	warning := styled(styles.Warning)

	fmt.Fprintln(a.Out, success.Render(fmt.Sprintf("wrote %d records across %d files", split.TotalRecords(), len(written))))
	for _, path := range written {
		fmt.Fprintf(a.Out, "  %s\n", path)
	}
	if n := len(built.Skipped); n > 0 {
		fmt.Fprintln(a.Out, warning.Render(fmt.Sprintf("%d unreadable files skipped", n)))
	}
	if n := len(split.Rejected); n > 0 {
		fmt.Fprintln(a.Out, warning.Render(fmt.Sprintf("%d oversized requests rejected", n)))
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) >= 2 && os.Args[1] == "preview" {
		return runPreview(os.Args[2:])
	}

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		return err
	}

	app := &App{
		Scanner: fs.NewScanner(),
		Reader:  fs.NewScanner(),
		Writer:  jsonl.NewWriter(),
		Limits:  llmbatch.DefaultLimits(),
		Logger:  logrus.New(),
		Out:     os.Stdout,
	}
	return app.Run(opts)
}

func parseOptions(args []string) (Options, error) {
	flags := flag.NewFlagSet("batchgen", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var extensions, outputDir, baseName string
	flags.StringVar(&extensions, "e", "txt", "comma-separated input extensions")
	flags.StringVar(&extensions, "extensions", "txt", "comma-separated input extensions")
	flags.StringVar(&outputDir, "o", "", "output directory")
	flags.StringVar(&outputDir, "output", "", "output directory")
	flags.StringVar(&baseName, "n", "batch", "output base name")
	flags.StringVar(&baseName, "name", "batch", "output base name")

	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}
	positional := flags.Args()
	if len(positional) != 4 {
		return Options{}, fmt.Errorf("expected 4 arguments, got %d\n\n%s", len(positional), usage)
	}

	temperature, err := strconv.ParseFloat(positional[1], 64)
	if err != nil {
		return Options{}, fmt.Errorf("invalid temperature %q: %w", positional[1], err)
	}
	if temperature < 0 || temperature > 2 {
		return Options{}, fmt.Errorf("temperature %v out of range [0, 2]", temperature)
	}

	inputDir := positional[3]
	if outputDir == "" {
		outputDir = inputDir
	}

	return Options{
		Model:        positional[0],
		Temperature:  temperature,
		SystemPrompt: positional[2],
		InputDir:     inputDir,
		Extensions:   strings.Split(extensions, ","),
		OutputDir:    outputDir,
		BaseName:     baseName,
	}, nil
}
