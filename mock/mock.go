// Package mock provides function-field test doubles for the llmbatch
// interfaces.
package mock

import (
	"context"

	"github.com/lzhao/llmbatch"
)

// Compile-time interface verification.
var (
	_ llmbatch.Scanner       = (*Scanner)(nil)
	_ llmbatch.ContentReader = (*ContentReader)(nil)
	_ llmbatch.BatchWriter   = (*BatchWriter)(nil)
	_ llmbatch.ChatCompleter = (*ChatCompleter)(nil)
)

// Scanner is a mock implementation of llmbatch.Scanner.
type Scanner struct {
	ScanFn func(dir string, exts []string) ([]string, error)
}

func (s *Scanner) Scan(dir string, exts []string) ([]string, error) {
	return s.ScanFn(dir, exts)
}

// ContentReader is a mock implementation of llmbatch.ContentReader.
type ContentReader struct {
	ReadFileFn func(path string) (string, error)
}

func (r *ContentReader) ReadFile(path string) (string, error) {
	return r.ReadFileFn(path)
}

// BatchWriter is a mock implementation of llmbatch.BatchWriter.
type BatchWriter struct {
	WriteFn func(dir, base string, batches []llmbatch.OutputBatch) ([]string, error)
}

func (w *BatchWriter) Write(dir, base string, batches []llmbatch.OutputBatch) ([]string, error) {
	return w.WriteFn(dir, base, batches)
}

// ChatCompleter is a mock implementation of llmbatch.ChatCompleter.
type ChatCompleter struct {
	CompleteFn func(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (string, error)
}

func (c *ChatCompleter) Complete(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (string, error) {
	return c.CompleteFn(ctx, model, systemPrompt, userContent, temperature)
}
