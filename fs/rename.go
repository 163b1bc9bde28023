package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyLogsAsJSON copies every .log file under inputDir to a .json file
// with the same stem, byte for byte. When outputDir differs from
// inputDir the relative directory structure is recreated there;
// otherwise the copy lands next to the original.
func CopyLogsAsJSON(inputDir, outputDir string) ([]string, error) {
	if outputDir == "" {
		outputDir = inputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".log") {
			return nil
		}

		targetDir := filepath.Dir(path)
		if outputDir != inputDir {
			rel, err := filepath.Rel(inputDir, path)
			if err != nil {
				return err
			}
			targetDir = filepath.Join(outputDir, filepath.Dir(rel))
			if err := os.MkdirAll(targetDir, 0o755); err != nil {
				return err
			}
		}

		stem := strings.TrimSuffix(filepath.Base(path), ".log")
		target := filepath.Join(targetDir, stem+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}

// RenamedFile records one positional rename performed by RenameBySRTOrder.
type RenamedFile struct {
	Old string
	New string
}

// RenameBySRTOrder renames the JSON files in targetDir so their names
// follow the SRT files in srcDir positionally: the i-th JSON file (in
// sorted order) takes the stem of the i-th SRT file. Renaming goes
// through temporary names first so an SRT stem that collides with an
// existing JSON name cannot clobber a file that still waits its turn.
func RenameBySRTOrder(srcDir, targetDir string) ([]RenamedFile, error) {
	srtNames, err := listByExt(srcDir, ".srt")
	if err != nil {
		return nil, err
	}
	jsonNames, err := listByExt(targetDir, ".json")
	if err != nil {
		return nil, err
	}
	if len(srtNames) == 0 {
		return nil, fmt.Errorf("no .srt files in %s", srcDir)
	}
	if len(jsonNames) == 0 {
		return nil, fmt.Errorf("no .json files in %s", targetDir)
	}

	n := len(srtNames)
	if len(jsonNames) < n {
		n = len(jsonNames)
	}

	// Phase one: park each JSON file under a temporary name.
	temps := make([]string, n)
	for i := 0; i < n; i++ {
		temp := filepath.Join(targetDir, fmt.Sprintf(".srtrename_%d.tmp", i))
		if err := os.Rename(filepath.Join(targetDir, jsonNames[i]), temp); err != nil {
			return nil, err
		}
		temps[i] = temp
	}

	// Phase two: move into the SRT-derived names.
	renamed := make([]RenamedFile, 0, n)
	for i := 0; i < n; i++ {
		stem := strings.TrimSuffix(srtNames[i], filepath.Ext(srtNames[i]))
		target := filepath.Join(targetDir, stem+".json")
		if err := os.Rename(temps[i], target); err != nil {
			return renamed, err
		}
		renamed = append(renamed, RenamedFile{Old: jsonNames[i], New: stem + ".json"})
	}
	return renamed, nil
}

// listByExt returns the sorted base names in dir with the given
// extension, matched case-insensitively. Subdirectories are not
// descended into.
func listByExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
