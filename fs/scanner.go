// Package fs provides filesystem-backed input discovery and the file
// shuffling utilities (structure-preserving moves, extension renames).
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lzhao/llmbatch"
)

// Compile-time interface verification.
var (
	_ llmbatch.Scanner       = (*Scanner)(nil)
	_ llmbatch.ContentReader = (*Scanner)(nil)
)

// Scanner discovers and reads input files on the local filesystem.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan walks dir recursively and returns the paths whose extension
// matches one of exts, sorted lexicographically so runs are
// deterministic regardless of traversal order.
func (s *Scanner) Scan(dir string, exts []string) ([]string, error) {
	wanted := NormalizeExtensions(exts)

	var matched []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if wanted[strings.ToLower(filepath.Ext(path))] {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matched)
	return matched, nil
}

// ReadFile returns the file's full content as UTF-8 text.
func (s *Scanner) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NormalizeExtensions lowercases extensions and ensures each carries a
// leading dot, returning a lookup set.
func NormalizeExtensions(exts []string) map[string]bool {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = true
	}
	return wanted
}
