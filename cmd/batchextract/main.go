// Command batchextract unpacks batch API response JSONL into one JSON
// file per response, keyed by custom_id, and aggregates token usage.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lzhao/llmbatch"
	"github.com/lzhao/llmbatch/jsonl"
)

// ErrNoResponseFiles is returned when a directory holds no .jsonl files.
var ErrNoResponseFiles = errors.New("no .jsonl files found")

// Stats summarizes one extraction run.
type Stats struct {
	Files        int            `json:"files"`
	Records      int            `json:"records"`
	Extracted    int            `json:"extracted"`
	Fallbacks    int            `json:"fallbacks"`
	SkippedLines int            `json:"skipped_lines"`
	Usage        llmbatch.Usage `json:"usage"`
}

func (s *Stats) add(other Stats) {
	s.Files += other.Files
	s.Records += other.Records
	s.Extracted += other.Extracted
	s.Fallbacks += other.Fallbacks
	s.SkippedLines += other.SkippedLines
	s.Usage.Add(other.Usage)
}

// App encapsulates the extractor for testing.
type App struct {
	Reader      *jsonl.Reader
	Logger      *logrus.Logger
	Concurrency int
}

// Run extracts input, which is either a single .jsonl file or a
// directory scanned recursively. outDir defaults next to the input.
// When writeStats is set, a stats.json summary is persisted per output
// directory.
func (a *App) Run(input, outDir string, writeStats bool) (Stats, error) {
	info, err := os.Stat(input)
	if err != nil {
		return Stats{}, err
	}
	if !info.IsDir() {
		if outDir == "" {
			outDir = strings.TrimSuffix(input, filepath.Ext(input)) + "_extracted"
		}
		stats, err := a.extractFile(input, outDir)
		if err != nil {
			return stats, err
		}
		if writeStats {
			if err := saveStats(filepath.Join(outDir, "stats.json"), stats); err != nil {
				return stats, err
			}
		}
		return stats, nil
	}
	return a.runDir(input, outDir, writeStats)
}

// runDir extracts every .jsonl under dir through a bounded errgroup.
// Each file gets its own output directory, so workers never share
// destination state; per-file stats are merged after the group waits.
func (a *App) runDir(dir, outRoot string, writeStats bool) (Stats, error) {
	if outRoot == "" {
		outRoot = dir
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".jsonl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	if len(files) == 0 {
		return Stats{}, ErrNoResponseFiles
	}
	sort.Strings(files)

	perFile := make([]Stats, len(files))
	var mu sync.Mutex
	var failed []string

	var g errgroup.Group
	g.SetLimit(a.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			fileOut := filepath.Join(outRoot, stem+"_extracted")

			stats, err := a.extractFile(file, fileOut)
			if err != nil {
				a.Logger.WithError(err).WithField("file", file).Error("extraction failed")
				mu.Lock()
				failed = append(failed, file)
				mu.Unlock()
				return nil
			}
			if writeStats {
				if err := saveStats(filepath.Join(fileOut, "stats.json"), stats); err != nil {
					a.Logger.WithError(err).WithField("file", file).Warn("could not persist stats")
				}
			}
			perFile[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var total Stats
	for _, stats := range perFile {
		total.add(stats)
	}
	if len(failed) > 0 {
		return total, fmt.Errorf("%d of %d files failed", len(failed), len(files))
	}
	return total, nil
}

// extractFile writes one {custom_id}.json per parseable line of path.
func (a *App) extractFile(path, outDir string) (Stats, error) {
	lines, skipped, err := a.Reader.Read(path)
	if err != nil {
		return Stats{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Stats{}, err
	}

	stats := Stats{Files: 1, Records: len(lines), SkippedLines: len(skipped)}
	for _, skip := range skipped {
		a.Logger.WithError(skip.Err).WithFields(logrus.Fields{
			"file": path,
			"line": skip.Num,
		}).Warn("skipping unparseable line")
	}

	matchers := llmbatch.DefaultMatchers()
	for _, line := range lines {
		customID := recordID(line)
		payload := a.payloadFor(line.Record, matchers, &stats)

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			stats.Fallbacks++
			continue
		}
		outPath := filepath.Join(outDir, customID+".json")
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			return stats, fmt.Errorf("writing %s: %w", outPath, err)
		}

		if usage, ok := llmbatch.ExtractUsage(line.Record); ok {
			stats.Usage.Add(usage)
		}
	}
	return stats, nil
}

// payloadFor picks what lands in the output file: the parsed content
// when it is JSON, a {"content": raw} wrapper for plain text, or the
// whole record when no shape matched.
func (a *App) payloadFor(record map[string]any, matchers []llmbatch.ShapeMatcher, stats *Stats) any {
	content := llmbatch.ExtractContent(record, matchers)
	switch {
	case content.Found && content.Value != nil:
		stats.Extracted++
		return content.Value
	case content.Found:
		stats.Extracted++
		return map[string]any{"content": content.Raw}
	default:
		stats.Fallbacks++
		return record
	}
}

// recordID picks the output file name: custom_id, then id, then a
// synthetic row number.
func recordID(line jsonl.Line) string {
	if id, ok := line.Record["custom_id"].(string); ok && id != "" {
		return id
	}
	if id, ok := line.Record["id"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("row%06d", line.Num)
}

func saveStats(path string, stats Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flags := flag.NewFlagSet("batchextract", flag.ContinueOnError)
	outDir := flags.String("o", "", "output directory (default: next to the input)")
	writeStats := flags.Bool("s", false, "persist a stats.json summary")
	concurrency := flags.Int("j", 4, "max files processed concurrently")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: batchextract [-o dir] [-s] [-j n] <responses.jsonl | dir>")
	}

	app := &App{
		Reader:      jsonl.NewReader(),
		Logger:      logrus.New(),
		Concurrency: *concurrency,
	}

	stats, err := app.Run(flags.Arg(0), *outDir, *writeStats)
	if err != nil {
		return err
	}

	fmt.Printf("extracted %d of %d records from %d files (%d lines skipped)\n",
		stats.Extracted, stats.Records, stats.Files, stats.SkippedLines)
	fmt.Printf("tokens: %d prompt, %d completion, %d total\n",
		stats.Usage.PromptTokens, stats.Usage.CompletionTokens, stats.Usage.TotalTokens)
	return nil
}
