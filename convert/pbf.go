// Package convert turns LLM-produced bookmark JSON into PotPlayer
// bookmark (PBF) files.
package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Bookmark is one entry of a bookmark JSON file.
type Bookmark struct {
	Index         string
	Name          string
	TimeFormatted string // HH:MM:SS.mmm
}

// ParseBookmarks decodes bookmark JSON. The input is typically model
// output, so a UTF-8 BOM and ```json code fences are tolerated. The
// document is either {"bookmarks": [...]} or a bare array whose
// entries carry a time_formatted field.
func ParseBookmarks(data []byte) ([]Bookmark, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = stripCodeFences(text)

	var doc struct {
		Bookmarks []map[string]any `json:"bookmarks"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err == nil && doc.Bookmarks != nil {
		return coerceBookmarks(doc.Bookmarks), nil
	}

	var bare []map[string]any
	if err := json.Unmarshal([]byte(text), &bare); err != nil {
		return nil, fmt.Errorf("not a bookmark document: %w", err)
	}
	if len(bare) == 0 {
		return nil, fmt.Errorf("not a bookmark document: empty array")
	}
	for _, entry := range bare {
		if _, ok := entry["time_formatted"]; !ok {
			return nil, fmt.Errorf("not a bookmark document: entry without time_formatted")
		}
	}
	return coerceBookmarks(bare), nil
}

// stripCodeFences removes a leading ```json line and a trailing ```.
func stripCodeFences(text string) string {
	stripped := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(stripped, "```json") {
		if i := strings.Index(stripped, "\n"); i >= 0 {
			stripped = stripped[i+1:]
		} else {
			stripped = ""
		}
	} else {
		stripped = text
	}
	if trimmed := strings.TrimRight(stripped, " \t\r\n"); strings.HasSuffix(trimmed, "```") {
		stripped = strings.TrimRight(strings.TrimSuffix(trimmed, "```"), " \t\r\n")
	}
	return stripped
}

// coerceBookmarks builds typed bookmarks from decoded entries,
// defaulting missing fields the way the bookmark JSON producers leave
// them: positional index, generated name, zero timestamp.
func coerceBookmarks(entries []map[string]any) []Bookmark {
	bookmarks := make([]Bookmark, len(entries))
	for i, entry := range entries {
		b := Bookmark{
			Index:         fmt.Sprintf("%d", i),
			Name:          fmt.Sprintf("Bookmark_%d", i),
			TimeFormatted: "00:00:00.000",
		}
		switch idx := entry["index"].(type) {
		case string:
			b.Index = idx
		case float64:
			b.Index = fmt.Sprintf("%d", int(idx))
		}
		if name, ok := entry["name"].(string); ok {
			b.Name = name
		}
		if tf, ok := entry["time_formatted"].(string); ok {
			b.TimeFormatted = tf
		}
		bookmarks[i] = b
	}
	return bookmarks
}

// TimeToMilliseconds converts HH:MM:SS.mmm to milliseconds.
func TimeToMilliseconds(timeStr string) (int, error) {
	var h, m, s, ms int
	if _, err := fmt.Sscanf(timeStr, "%d:%d:%d.%d", &h, &m, &s, &ms); err != nil {
		return 0, fmt.Errorf("bad time %q: %w", timeStr, err)
	}
	return (h*3600+m*60+s)*1000 + ms, nil
}

// FormatPBF renders bookmarks as PBF text: a [Bookmark] header, one
// index=milliseconds*name* line per entry, and a trailing N= line.
// Entries with unparseable timestamps land at 0 rather than being
// dropped, so the bookmark count stays aligned with the source.
func FormatPBF(bookmarks []Bookmark) string {
	lines := make([]string, 0, len(bookmarks)+2)
	lines = append(lines, "[Bookmark]")
	for _, b := range bookmarks {
		ms, err := TimeToMilliseconds(b.TimeFormatted)
		if err != nil {
			ms = 0
		}
		lines = append(lines, fmt.Sprintf("%s=%d*%s*", b.Index, ms, b.Name))
	}
	lines = append(lines, fmt.Sprintf("%d=", len(bookmarks)))
	return strings.Join(lines, "\n")
}

// WritePBF writes content as UTF-16 LE with a BOM, the encoding
// PotPlayer expects.
func WritePBF(path, content string) error {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := encoder.Bytes([]byte(content))
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

// OutputPath derives the .pbf path for a bookmark JSON file, dropping
// a _bookmarks stem suffix when present.
func OutputPath(outputDir, jsonPath string) string {
	stem := strings.TrimSuffix(filepath.Base(jsonPath), filepath.Ext(jsonPath))
	stem = strings.TrimSuffix(stem, "_bookmarks")
	return filepath.Join(outputDir, stem+".pbf")
}

// FindBookmarkFiles locates candidate JSON files under dir: first
// *bookmarks.json recursively, then any *.json as a fallback.
func FindBookmarkFiles(dir string) ([]string, error) {
	for _, pattern := range []string{
		filepath.Join(dir, "**", "*bookmarks.json"),
		filepath.Join(dir, "*bookmarks.json"),
		filepath.Join(dir, "**", "*.json"),
		filepath.Join(dir, "*.json"),
	} {
		matches, err := doubleStarGlob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}
	return nil, nil
}

// doubleStarGlob supports the single ** segment used by the bookmark
// patterns by walking the tree; plain patterns go through filepath.Glob.
func doubleStarGlob(pattern string) ([]string, error) {
	star := string(filepath.Separator) + "**" + string(filepath.Separator)
	i := strings.Index(pattern, star)
	if i < 0 {
		return filepath.Glob(pattern)
	}
	root := pattern[:i]
	suffix := pattern[i+len(star):]

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ok, err := filepath.Match(suffix, filepath.Base(path))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Summary reports one conversion run.
type Summary struct {
	Files     int
	Converted int
	Failed    int
}

// ConvertDir converts every bookmark JSON under inputDir, writing PBF
// files to outputDir. Per-file failures are counted, not fatal.
func ConvertDir(inputDir, outputDir string) (Summary, error) {
	if outputDir == "" {
		outputDir = inputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, err
	}

	files, err := FindBookmarkFiles(inputDir)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Files: len(files)}
	for _, file := range files {
		if err := convertFile(file, outputDir); err != nil {
			summary.Failed++
			continue
		}
		summary.Converted++
	}
	return summary, nil
}

func convertFile(jsonPath, outputDir string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return err
	}
	bookmarks, err := ParseBookmarks(data)
	if err != nil {
		return err
	}
	return WritePBF(OutputPath(outputDir, jsonPath), FormatPBF(bookmarks))
}
