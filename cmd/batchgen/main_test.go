package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzhao/llmbatch"
	"github.com/lzhao/llmbatch/chroma"
	"github.com/lzhao/llmbatch/lipgloss"
	"github.com/lzhao/llmbatch/mock"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testApp(scanner *mock.Scanner, reader *mock.ContentReader, writer *mock.BatchWriter) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		Scanner: scanner,
		Reader:  reader,
		Writer:  writer,
		Limits:  llmbatch.DefaultLimits(),
		Logger:  quietLogger(),
		Out:     out,
	}, out
}

func TestAppRun(t *testing.T) {
	t.Parallel()

	t.Run("builds and writes a batch", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(dir string, exts []string) ([]string, error) {
			assert.Equal(t, "in", dir)
			assert.Equal(t, []string{"txt"}, exts)
			return []string{"in/a.txt", "in/b.txt"}, nil
		}}
		reader := &mock.ContentReader{ReadFileFn: func(path string) (string, error) {
			return "content of " + path, nil
		}}

		var gotDir, gotBase string
		var gotBatches []llmbatch.OutputBatch
		writer := &mock.BatchWriter{WriteFn: func(dir, base string, batches []llmbatch.OutputBatch) ([]string, error) {
			gotDir, gotBase, gotBatches = dir, base, batches
			return []string{"out/requests.jsonl"}, nil
		}}

		app, out := testApp(scanner, reader, writer)
		err := app.Run(Options{
			Model:        "qwen-plus",
			Temperature:  0.7,
			SystemPrompt: "be brief",
			InputDir:     "in",
			Extensions:   []string{"txt"},
			OutputDir:    "out",
			BaseName:     "requests",
		})
		require.NoError(t, err)

		assert.Equal(t, "out", gotDir)
		assert.Equal(t, "requests", gotBase)
		require.Len(t, gotBatches, 1)
		assert.Len(t, gotBatches[0].Records, 2)
		assert.Contains(t, out.String(), "out/requests.jsonl")
	})

	t.Run("fails when no files match", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(string, []string) ([]string, error) {
			return nil, nil
		}}
		app, _ := testApp(scanner, &mock.ContentReader{}, &mock.BatchWriter{})

		err := app.Run(Options{InputDir: "in"})
		assert.ErrorIs(t, err, ErrNoInputFiles)
	})

	t.Run("unreadable files are skipped, not fatal", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(string, []string) ([]string, error) {
			return []string{"a.txt", "b.txt"}, nil
		}}
		reader := &mock.ContentReader{ReadFileFn: func(path string) (string, error) {
			if path == "a.txt" {
				return "", fmt.Errorf("permission denied")
			}
			return "ok", nil
		}}
		writer := &mock.BatchWriter{WriteFn: func(_, _ string, batches []llmbatch.OutputBatch) ([]string, error) {
			require.Len(t, batches, 1)
			assert.Len(t, batches[0].Records, 1)
			return []string{"batch.jsonl"}, nil
		}}

		app, out := testApp(scanner, reader, writer)
		err := app.Run(Options{InputDir: "in", OutputDir: "out", BaseName: "batch"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "1 unreadable files skipped")
	})

	t.Run("fails when every file is unreadable", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(string, []string) ([]string, error) {
			return []string{"a.txt", "b.txt"}, nil
		}}
		reader := &mock.ContentReader{ReadFileFn: func(string) (string, error) {
			return "", fmt.Errorf("permission denied")
		}}
		writer := &mock.BatchWriter{WriteFn: func(string, string, []llmbatch.OutputBatch) ([]string, error) {
			return nil, nil
		}}

		app, _ := testApp(scanner, reader, writer)
		err := app.Run(Options{InputDir: "in"})
		assert.ErrorIs(t, err, ErrNoBatches)
	})

	t.Run("fails when every record is oversized", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(string, []string) ([]string, error) {
			return []string{"a.txt"}, nil
		}}
		reader := &mock.ContentReader{ReadFileFn: func(string) (string, error) {
			return strings.Repeat("x", 100), nil
		}}
		writer := &mock.BatchWriter{WriteFn: func(string, string, []llmbatch.OutputBatch) ([]string, error) {
			return nil, nil
		}}

		app, _ := testApp(scanner, reader, writer)
		app.Limits.MaxLineSizeBytes = 16
		err := app.Run(Options{InputDir: "in"})
		assert.ErrorIs(t, err, ErrNoBatches)
	})

	t.Run("fails when nothing could be written", func(t *testing.T) {
		t.Parallel()

		scanner := &mock.Scanner{ScanFn: func(string, []string) ([]string, error) {
			return []string{"a.txt"}, nil
		}}
		reader := &mock.ContentReader{ReadFileFn: func(string) (string, error) {
			return "ok", nil
		}}
		writer := &mock.BatchWriter{WriteFn: func(string, string, []llmbatch.OutputBatch) ([]string, error) {
			return nil, fmt.Errorf("disk full")
		}}

		app, _ := testApp(scanner, reader, writer)
		err := app.Run(Options{InputDir: "in"})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestRenderLines(t *testing.T) {
	t.Parallel()

	tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(lipgloss.DefaultTheme().Palette()))
	require.NoError(t, err)

	source := "{\n  \"custom_id\": \"00001\",\n  \"method\": \"POST\"\n}"
	out := renderLines(tokenizer.TokenizeLines("json", source))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, "one rendered line per source line")
	assert.Contains(t, lines[1], "custom_id")
	assert.Contains(t, lines[2], "method")
	assert.Equal(t, strings.Count(source, "\n"), strings.Count(out, "\n"))
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := parseOptions([]string{"qwen-plus", "0.5", "prompt", "dir"})
		require.NoError(t, err)

		assert.Equal(t, "qwen-plus", opts.Model)
		assert.Equal(t, 0.5, opts.Temperature)
		assert.Equal(t, "prompt", opts.SystemPrompt)
		assert.Equal(t, "dir", opts.InputDir)
		assert.Equal(t, []string{"txt"}, opts.Extensions)
		assert.Equal(t, "dir", opts.OutputDir, "output defaults to input dir")
		assert.Equal(t, "batch", opts.BaseName)
	})

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		opts, err := parseOptions([]string{"-e", "txt,md", "-o", "out", "-n", "requests", "m", "1", "p", "dir"})
		require.NoError(t, err)

		assert.Equal(t, []string{"txt", "md"}, opts.Extensions)
		assert.Equal(t, "out", opts.OutputDir)
		assert.Equal(t, "requests", opts.BaseName)
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Parallel()

		_, err := parseOptions([]string{"m", "2.5", "p", "dir"})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "out of range"))
	})

	t.Run("temperature not a number", func(t *testing.T) {
		t.Parallel()

		_, err := parseOptions([]string{"m", "warm", "p", "dir"})
		assert.Error(t, err)
	})

	t.Run("missing positionals", func(t *testing.T) {
		t.Parallel()

		_, err := parseOptions([]string{"m", "0.5"})
		assert.Error(t, err)
	})
}
