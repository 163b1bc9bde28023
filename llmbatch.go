// Package llmbatch provides domain types for building, splitting and
// extracting LLM batch chat-completion requests.
package llmbatch

import "context"

// Message is a single chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestBody is the chat-completion payload embedded in a batch record.
type RequestBody struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// BatchRecord is one chat-completion request destined for a JSONL line.
type BatchRecord struct {
	CustomID string      `json:"custom_id"`
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Body     RequestBody `json:"body"`
}

// CompletionsURL is the endpoint every batch record targets. The batch
// API requires one model per file, so the URL is constant.
const CompletionsURL = "/v1/chat/completions"

// NewBatchRecord builds a record with the fixed request shape: a system
// message followed by the user content, verbatim.
func NewBatchRecord(customID string, spec RequestSpec, userContent string) BatchRecord {
	return BatchRecord{
		CustomID: customID,
		Method:   "POST",
		URL:      CompletionsURL,
		Body: RequestBody{
			Model:       spec.Model,
			Temperature: spec.Temperature,
			Messages: []Message{
				{Role: "system", Content: spec.SystemPrompt},
				{Role: "user", Content: userContent},
			},
		},
	}
}

// RequestSpec holds the per-run constants shared by every record.
type RequestSpec struct {
	Model        string
	Temperature  float64
	SystemPrompt string
}

// Limits bounds the output files produced by Split.
type Limits struct {
	MaxRequestsPerFile int   // max records per output file
	MaxFileSizeBytes   int64 // max cumulative bytes per output file
	MaxLineSizeBytes   int64 // max bytes for a single serialized record
}

// Default limits, per the batch API's JSONL constraints.
const (
	DefaultMaxRequestsPerFile = 50000
	DefaultMaxFileSizeBytes   = 500 * 1024 * 1024
	DefaultMaxLineSizeBytes   = 6 * 1024 * 1024
)

// DefaultLimits returns the batch API's documented limits.
func DefaultLimits() Limits {
	return Limits{
		MaxRequestsPerFile: DefaultMaxRequestsPerFile,
		MaxFileSizeBytes:   DefaultMaxFileSizeBytes,
		MaxLineSizeBytes:   DefaultMaxLineSizeBytes,
	}
}

// SkippedFile records an input file dropped for a read failure.
type SkippedFile struct {
	Path string
	Err  error
}

// RejectedRecord records a built record dropped because its serialized
// form exceeds the per-line limit.
type RejectedRecord struct {
	CustomID string
	Size     int64 // serialized bytes, including the line separator
}

// OutputBatch is a sealed group of records destined for one JSONL file.
// Lines holds each record's compact serialization without the trailing
// newline; Size is the cumulative byte count including one separator
// byte per line.
type OutputBatch struct {
	Records []BatchRecord
	Lines   [][]byte
	Size    int64
}

// Scanner discovers input files under a directory.
type Scanner interface {
	// Scan returns the lexicographically sorted paths of files under dir
	// whose extension matches one of exts (case-insensitive, with or
	// without the leading dot).
	Scan(dir string, exts []string) ([]string, error)
}

// ContentReader loads an input file's full text.
type ContentReader interface {
	ReadFile(path string) (string, error)
}

// BatchWriter persists sealed batches as JSONL files.
type BatchWriter interface {
	// Write stores each batch under dir using the base name scheme from
	// BatchFileName. It keeps going past individual write failures and
	// returns the paths written alongside any accumulated error.
	Write(dir, base string, batches []OutputBatch) ([]string, error)
}

// ChatCompleter sends one chat completion and returns the assistant text.
type ChatCompleter interface {
	Complete(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (string, error)
}

// ColorPair holds foreground/background colors for a UI element.
type ColorPair struct {
	Foreground string
	Background string
}

// Styles are the semantic colors used by the CLI summaries and the TUI.
type Styles struct {
	Header  ColorPair
	Success ColorPair
	Error   ColorPair
	Warning ColorPair
	Accent  ColorPair
	Muted   ColorPair
}

// Palette holds the colors used for syntax highlighting record previews.
type Palette struct {
	Background string
	Foreground string

	Key         string // JSON object keys
	String      string
	Number      string
	Constant    string // true/false/null
	Punctuation string

	UIBackground string
	UIForeground string
	UIAccent     string
}

// Theme provides colors for terminal output.
type Theme interface {
	Styles() Styles
	Palette() Palette
}

// Style describes how a highlighted token should be rendered.
type Style struct {
	Foreground string
	Bold       bool
}

// Token is a fragment of highlighted text.
type Token struct {
	Text  string
	Style Style
}

// Tokenizer splits source text into syntax-highlighted tokens.
type Tokenizer interface {
	// Tokenize returns tokens for source in the given language, or nil
	// if the language is not supported.
	Tokenize(language, source string) []Token
}
