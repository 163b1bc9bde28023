package llmbatch

import (
	"encoding/json"
	"fmt"
)

// SplitResult carries the sealed batches in seal order and the records
// rejected for exceeding the per-line limit.
type SplitResult struct {
	Batches  []OutputBatch
	Rejected []RejectedRecord
}

// TotalRecords returns the number of records across all batches.
func (r SplitResult) TotalRecords() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Records)
	}
	return n
}

// Split partitions records into sealed batches in a single greedy,
// order-preserving pass. Each record's size is the byte length of its
// compact JSON encoding plus one separator byte. A record larger than
// limits.MaxLineSizeBytes is rejected outright; a record that fits the
// limits individually but not the current non-empty batch seals that
// batch and opens a new one; it is never rejected for that reason.
func Split(records []BatchRecord, limits Limits) SplitResult {
	var result SplitResult
	var current OutputBatch

	seal := func() {
		result.Batches = append(result.Batches, current)
		current = OutputBatch{}
	}

	for _, record := range records {
		// Record fields are plain strings and numbers; encoding cannot fail.
		line, _ := json.Marshal(record)
		size := int64(len(line)) + 1

		if size > limits.MaxLineSizeBytes {
			result.Rejected = append(result.Rejected, RejectedRecord{
				CustomID: record.CustomID,
				Size:     size,
			})
			continue
		}

		countFull := len(current.Records)+1 > limits.MaxRequestsPerFile
		sizeFull := current.Size+size > limits.MaxFileSizeBytes
		if (countFull || sizeFull) && len(current.Records) > 0 {
			seal()
		}

		current.Records = append(current.Records, record)
		current.Lines = append(current.Lines, line)
		current.Size += size
	}

	if len(current.Records) > 0 {
		seal()
	}

	return result
}

// BatchFileName names the index-th sealed file (1-based). The first
// file uses the base name verbatim; later files carry a _partN suffix
// starting at 2, in seal order.
func BatchFileName(base string, index int) string {
	if index <= 1 {
		return base + ".jsonl"
	}
	return fmt.Sprintf("%s_part%d.jsonl", base, index)
}
