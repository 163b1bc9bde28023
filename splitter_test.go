package llmbatch_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lzhao/llmbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int, content string) []llmbatch.BatchRecord {
	spec := llmbatch.RequestSpec{Model: "m", Temperature: 1.0, SystemPrompt: "s"}
	records := make([]llmbatch.BatchRecord, n)
	for i := range records {
		records[i] = llmbatch.NewBatchRecord(llmbatch.CustomID(i+1), spec, content)
	}
	return records
}

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("everything fits in one batch", func(t *testing.T) {
		t.Parallel()

		records := makeRecords(10, "small content")
		result := llmbatch.Split(records, llmbatch.DefaultLimits())

		require.Len(t, result.Batches, 1)
		assert.Empty(t, result.Rejected)
		assert.Equal(t, records, result.Batches[0].Records)
	})

	t.Run("request count limit splits into ceil(N/max) batches", func(t *testing.T) {
		t.Parallel()

		limits := llmbatch.DefaultLimits()
		limits.MaxRequestsPerFile = 7
		records := makeRecords(23, "x")

		result := llmbatch.Split(records, limits)

		require.Len(t, result.Batches, 4) // ceil(23/7)
		for i := 0; i < 3; i++ {
			assert.Len(t, result.Batches[i].Records, 7)
		}
		assert.Len(t, result.Batches[3].Records, 2)

		// Concatenating all batches reconstructs the original order.
		var ids []string
		for _, b := range result.Batches {
			for _, r := range b.Records {
				ids = append(ids, r.CustomID)
			}
		}
		require.Len(t, ids, 23)
		for i, id := range ids {
			assert.Equal(t, llmbatch.CustomID(i+1), id)
		}
	})

	t.Run("file size limit seals the current batch", func(t *testing.T) {
		t.Parallel()

		records := makeRecords(3, strings.Repeat("a", 100))
		line, err := json.Marshal(records[0])
		require.NoError(t, err)
		recordSize := int64(len(line)) + 1

		limits := llmbatch.DefaultLimits()
		limits.MaxFileSizeBytes = 2 * recordSize // room for exactly two records

		result := llmbatch.Split(records, limits)

		require.Len(t, result.Batches, 2)
		assert.Len(t, result.Batches[0].Records, 2)
		assert.Len(t, result.Batches[1].Records, 1)
		assert.Equal(t, 2*recordSize, result.Batches[0].Size)
	})

	t.Run("oversized record is rejected and reported", func(t *testing.T) {
		t.Parallel()

		limits := llmbatch.DefaultLimits()
		limits.MaxLineSizeBytes = 512

		records := makeRecords(3, "fits")
		big := llmbatch.NewBatchRecord("00099", llmbatch.RequestSpec{Model: "m"}, strings.Repeat("z", 1024))
		records = append(records[:1], append([]llmbatch.BatchRecord{big}, records[1:]...)...)

		result := llmbatch.Split(records, limits)

		require.Len(t, result.Rejected, 1)
		assert.Equal(t, "00099", result.Rejected[0].CustomID)
		assert.Greater(t, result.Rejected[0].Size, limits.MaxLineSizeBytes)

		// The surrounding records are unaffected, in original order.
		require.Len(t, result.Batches, 1)
		var ids []string
		for _, r := range result.Batches[0].Records {
			ids = append(ids, r.CustomID)
		}
		assert.Equal(t, []string{"00001", "00002", "00003"}, ids)
	})

	t.Run("a record that fits limits is never rejected for batch fit", func(t *testing.T) {
		t.Parallel()

		limits := llmbatch.Limits{
			MaxRequestsPerFile: 1,
			MaxFileSizeBytes:   llmbatch.DefaultMaxFileSizeBytes,
			MaxLineSizeBytes:   llmbatch.DefaultMaxLineSizeBytes,
		}
		records := makeRecords(3, "content")

		result := llmbatch.Split(records, limits)

		assert.Empty(t, result.Rejected)
		require.Len(t, result.Batches, 3)
		assert.Equal(t, 3, result.TotalRecords())
	})

	t.Run("empty input yields no batches", func(t *testing.T) {
		t.Parallel()

		result := llmbatch.Split(nil, llmbatch.DefaultLimits())

		assert.Empty(t, result.Batches)
		assert.Empty(t, result.Rejected)
	})

	t.Run("splitting is deterministic", func(t *testing.T) {
		t.Parallel()

		limits := llmbatch.DefaultLimits()
		limits.MaxRequestsPerFile = 5
		records := makeRecords(12, "same input")

		first := llmbatch.Split(records, limits)
		second := llmbatch.Split(records, limits)

		require.Equal(t, len(first.Batches), len(second.Batches))
		for i := range first.Batches {
			assert.Equal(t, first.Batches[i].Lines, second.Batches[i].Lines)
		}
	})
}

func TestBatchFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "batch.jsonl", llmbatch.BatchFileName("batch", 1))
	assert.Equal(t, "batch_part2.jsonl", llmbatch.BatchFileName("batch", 2))
	assert.Equal(t, "run_part10.jsonl", llmbatch.BatchFileName("run", 10))
}

func TestSplit_BoundaryNaming(t *testing.T) {
	t.Parallel()

	// Three small records with a two-record cap: [A,B] then [C].
	limits := llmbatch.DefaultLimits()
	limits.MaxRequestsPerFile = 2
	records := makeRecords(3, "equal size")

	result := llmbatch.Split(records, limits)

	require.Len(t, result.Batches, 2)
	assert.Equal(t, []string{"00001", "00002"}, []string{
		result.Batches[0].Records[0].CustomID,
		result.Batches[0].Records[1].CustomID,
	})
	assert.Equal(t, "00003", result.Batches[1].Records[0].CustomID)
	assert.Equal(t, "batch.jsonl", llmbatch.BatchFileName("batch", 1))
	assert.Equal(t, "batch_part2.jsonl", llmbatch.BatchFileName("batch", 2))
}
