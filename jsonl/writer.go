// Package jsonl provides JSONL persistence for batch requests and
// batch API responses.
package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lzhao/llmbatch"
)

// Compile-time interface verification.
var _ llmbatch.BatchWriter = (*Writer)(nil)

// Writer persists sealed batches as JSONL files.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores each batch under dir, creating it if needed. The first
// batch takes the base name verbatim, later ones the _partN suffix. A
// failed batch is reported with its path and cause but does not stop
// the remaining batches; the returned error joins all failures.
func (w *Writer) Write(dir, base string, batches []llmbatch.OutputBatch) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	var errs []error
	for i, batch := range batches {
		path := filepath.Join(dir, llmbatch.BatchFileName(base, i+1))
		if err := writeBatch(path, batch); err != nil {
			errs = append(errs, fmt.Errorf("writing %s: %w", path, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// writeBatch writes one record per line, each followed by a single
// newline, with no trailing blank line beyond the final newline.
func writeBatch(path string, batch llmbatch.OutputBatch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	for _, line := range batch.Lines {
		if _, err := bw.Write(line); err != nil {
			f.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
