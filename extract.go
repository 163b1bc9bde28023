package llmbatch

import "encoding/json"

// ShapeMatcher tries to locate the assistant content inside one decoded
// response record. Different batch API providers nest the completion in
// different places, so extraction probes an ordered list of matchers
// and the first hit wins.
type ShapeMatcher struct {
	// Name identifies the matcher in diagnostics.
	Name string

	// Match returns the content value and true when the record has this
	// shape. The value is usually a string but may already be decoded
	// JSON for providers that inline structured output.
	Match func(record map[string]any) (any, bool)
}

// DefaultMatchers returns the known response shapes in priority order.
func DefaultMatchers() []ShapeMatcher {
	return []ShapeMatcher{
		ChoicesMatcher("response.body.choices", "response", "body", "choices"),
		ChoicesMatcher("response.choices", "response", "choices"),
		ChoicesMatcher("choices", "choices"),
		ChoicesMatcher("body.choices", "body", "choices"),
		MessageMatcher("response.body.message", "response", "body"),
		MessageMatcher("response.message", "response"),
		MessageMatcher("message"),
	}
}

// ChoicesMatcher matches an OpenAI-style choices array at the given
// path: the first choice's message.content, then its text field, then
// the choice itself when it is a bare string.
func ChoicesMatcher(name string, path ...string) ShapeMatcher {
	return ShapeMatcher{
		Name: name,
		Match: func(record map[string]any) (any, bool) {
			node, ok := lookup(record, path...)
			if !ok {
				return nil, false
			}
			choices, ok := node.([]any)
			if !ok || len(choices) == 0 {
				return nil, false
			}
			switch first := choices[0].(type) {
			case map[string]any:
				if msg, ok := first["message"].(map[string]any); ok {
					if content, ok := msg["content"]; ok {
						return content, true
					}
				}
				if text, ok := first["text"]; ok {
					return text, true
				}
			case string:
				return first, true
			}
			return nil, false
		},
	}
}

// MessageMatcher matches a bare message.content object at the given
// path, or a node that is itself the content string. It is the
// last-resort shape for providers that skip the choices array.
func MessageMatcher(name string, path ...string) ShapeMatcher {
	return ShapeMatcher{
		Name: name,
		Match: func(record map[string]any) (any, bool) {
			node := any(record)
			if len(path) > 0 {
				var ok bool
				node, ok = lookup(record, path...)
				if !ok {
					return nil, false
				}
			}
			switch n := node.(type) {
			case map[string]any:
				if msg, ok := n["message"].(map[string]any); ok {
					if content, ok := msg["content"]; ok {
						return content, true
					}
				}
			case string:
				return n, true
			}
			return nil, false
		},
	}
}

// Content is the assistant output pulled from one response record.
type Content struct {
	// Value is the content decoded as JSON when Raw parses (or when the
	// provider inlined a structured value); nil otherwise.
	Value any

	// Raw is the content's string form.
	Raw string

	// Found reports whether any matcher recognized the record.
	Found bool
}

// ExtractContent runs record through matchers in order and normalizes
// the first hit: string content is additionally parsed as JSON when it
// happens to be JSON, structured content is kept as-is with Raw set to
// its serialization.
func ExtractContent(record map[string]any, matchers []ShapeMatcher) Content {
	for _, m := range matchers {
		value, ok := m.Match(record)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			var parsed any
			if err := json.Unmarshal([]byte(v), &parsed); err == nil {
				return Content{Value: parsed, Raw: v, Found: true}
			}
			return Content{Raw: v, Found: true}
		default:
			raw, _ := json.Marshal(v)
			return Content{Value: v, Raw: string(raw), Found: true}
		}
	}
	return Content{}
}

// Usage aggregates token counts across response records.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ExtractUsage pulls the token usage object out of a response record,
// probing response.body.usage, response.usage and usage in that order.
func ExtractUsage(record map[string]any) (Usage, bool) {
	for _, path := range [][]string{
		{"response", "body", "usage"},
		{"response", "usage"},
		{"usage"},
	} {
		node, ok := lookup(record, path...)
		if !ok {
			continue
		}
		obj, ok := node.(map[string]any)
		if !ok {
			continue
		}
		return Usage{
			PromptTokens:     intField(obj, "prompt_tokens"),
			CompletionTokens: intField(obj, "completion_tokens"),
			TotalTokens:      intField(obj, "total_tokens"),
		}, true
	}
	return Usage{}, false
}

// lookup walks nested maps along path.
func lookup(record map[string]any, path ...string) (any, bool) {
	node := any(record)
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// intField reads a numeric field decoded by encoding/json (float64).
func intField(obj map[string]any, key string) int {
	if f, ok := obj[key].(float64); ok {
		return int(f)
	}
	return 0
}
