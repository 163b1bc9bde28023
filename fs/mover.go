package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mover relocates files of selected extensions from one tree to
// another, preserving the relative directory structure.
type Mover struct{}

// NewMover creates a new Mover.
func NewMover() *Mover {
	return &Mover{}
}

// MovedFile records one relocation performed by Move.
type MovedFile struct {
	From string
	To   string
}

// Move walks srcDir and moves every file whose extension matches exts
// into dstDir under the same relative path, creating directories as
// needed.
func (m *Mover) Move(srcDir, dstDir string, exts []string) ([]MovedFile, error) {
	wanted := NormalizeExtensions(exts)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, err
	}

	var moved []MovedFile
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := moveFile(path, target); err != nil {
			return err
		}
		moved = append(moved, MovedFile{From: path, To: target})
		return nil
	})
	if err != nil {
		return moved, err
	}
	return moved, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// two paths live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
