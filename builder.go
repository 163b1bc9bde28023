package llmbatch

import "fmt"

// Builder turns an ordered list of input files into batch records.
type Builder struct {
	Reader ContentReader
}

// NewBuilder creates a Builder that loads content through reader.
func NewBuilder(reader ContentReader) *Builder {
	return &Builder{Reader: reader}
}

// BuildResult carries the records that were built and the files that
// could not be read. A read failure never aborts the run.
type BuildResult struct {
	Records []BatchRecord
	Skipped []SkippedFile
}

// Build constructs one record per readable file, in input order. The
// custom id is the 1-based position of the file in paths, so ids are
// assigned before any file is skipped for a read failure: skipping a
// file leaves a gap rather than renumbering the rest.
func (b *Builder) Build(paths []string, spec RequestSpec) BuildResult {
	var result BuildResult
	for i, path := range paths {
		content, err := b.Reader.ReadFile(path)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Path: path, Err: err})
			continue
		}
		result.Records = append(result.Records, NewBatchRecord(CustomID(i+1), spec, content))
	}
	return result
}

// CustomID formats a 1-based index as a zero-padded 5-digit id. Indexes
// above 99999 widen to however many digits they need, keeping ids
// unique and ordered.
func CustomID(i int) string {
	return fmt.Sprintf("%05d", i)
}
