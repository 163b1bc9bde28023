package llmbatch_test

import (
	"encoding/json"
	"testing"

	"github.com/lzhao/llmbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, line string) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	return record
}

func TestExtractContent(t *testing.T) {
	t.Parallel()

	matchers := llmbatch.DefaultMatchers()

	t.Run("response.body.choices message content", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"custom_id":"00001","response":{"body":{"choices":[{"message":{"content":"hi"}}]}}}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "hi", content.Raw)
		assert.Nil(t, content.Value, "plain text does not parse as JSON")
	})

	t.Run("content that parses as JSON is decoded", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"response":{"body":{"choices":[{"message":{"content":"{\"answer\":42}"}}]}}}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		require.NotNil(t, content.Value)
		parsed, ok := content.Value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(42), parsed["answer"])
	})

	t.Run("choices text field", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"response":{"body":{"choices":[{"text":"completion text"}]}}}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "completion text", content.Raw)
	})

	t.Run("top-level choices", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"choices":[{"message":{"content":"top"}}]}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "top", content.Raw)
	})

	t.Run("bare string choice", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"choices":["just a string"]}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "just a string", content.Raw)
	})

	t.Run("message fallback without choices", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"response":{"body":{"message":{"content":"fallback"}}}}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "fallback", content.Raw)
	})

	t.Run("structured content is kept as a value", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"choices":[{"message":{"content":{"already":"json"}}}]}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		require.NotNil(t, content.Value)
		assert.JSONEq(t, `{"already":"json"}`, content.Raw)
	})

	t.Run("unknown shape is not found", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"custom_id":"00001","error":{"code":"timeout"}}`)
		content := llmbatch.ExtractContent(record, matchers)

		assert.False(t, content.Found)
	})

	t.Run("matchers win in priority order", func(t *testing.T) {
		t.Parallel()

		// Both shapes present: the deeper response.body path wins.
		record := decodeRecord(t, `{
			"choices":[{"message":{"content":"shallow"}}],
			"response":{"body":{"choices":[{"message":{"content":"deep"}}]}}
		}`)
		content := llmbatch.ExtractContent(record, matchers)

		require.True(t, content.Found)
		assert.Equal(t, "deep", content.Raw)
	})
}

func TestChoicesMatcher(t *testing.T) {
	t.Parallel()

	m := llmbatch.ChoicesMatcher("body.choices", "body", "choices")

	t.Run("empty choices does not match", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"body":{"choices":[]}}`)
		_, ok := m.Match(record)
		assert.False(t, ok)
	})

	t.Run("missing path does not match", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"body":{}}`)
		_, ok := m.Match(record)
		assert.False(t, ok)
	})
}

func TestExtractUsage(t *testing.T) {
	t.Parallel()

	t.Run("reads usage from response body", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"response":{"body":{"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}}}`)
		usage, ok := llmbatch.ExtractUsage(record)

		require.True(t, ok)
		assert.Equal(t, llmbatch.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, usage)
	})

	t.Run("falls back to top-level usage", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
		usage, ok := llmbatch.ExtractUsage(record)

		require.True(t, ok)
		assert.Equal(t, 7, usage.TotalTokens)
	})

	t.Run("no usage object", func(t *testing.T) {
		t.Parallel()

		record := decodeRecord(t, `{"custom_id":"00001"}`)
		_, ok := llmbatch.ExtractUsage(record)
		assert.False(t, ok)
	})

	t.Run("accumulates across records", func(t *testing.T) {
		t.Parallel()

		var total llmbatch.Usage
		total.Add(llmbatch.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3})
		total.Add(llmbatch.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30})

		assert.Equal(t, llmbatch.Usage{PromptTokens: 11, CompletionTokens: 22, TotalTokens: 33}, total)
	})
}
