package jsonl

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// maxLineSize is the scanner buffer for a single response line (64MB).
// Batch responses can be far larger than the 6MB request-line limit
// because they carry the completion text.
const maxLineSize = 64 * 1024 * 1024

// Line is one successfully decoded response record with its 1-based
// position in the file.
type Line struct {
	Num    int
	Record map[string]any
}

// SkippedLine is a line that could not be decoded as JSON.
type SkippedLine struct {
	Num int
	Err error
}

// Reader loads batch API response records from JSONL files.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes every line of the file. Blank lines are ignored;
// unparseable lines are reported with their line number and skipped,
// never fatal.
func (r *Reader) Read(path string) ([]Line, []SkippedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var lines []Line
	var skipped []SkippedLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			skipped = append(skipped, SkippedLine{Num: lineNum, Err: err})
			continue
		}
		lines = append(lines, Line{Num: lineNum, Record: record})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return lines, skipped, nil
}
