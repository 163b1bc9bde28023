package gemini

import (
	"context"
	"fmt"

	"github.com/lzhao/llmbatch"
)

// Compile-time interface verification.
var _ llmbatch.ChatCompleter = (*Completer)(nil)

// Completer implements llmbatch.ChatCompleter using Google Gemini. The
// system prompt maps to the system instruction; the user content is the
// single conversation turn.
type Completer struct {
	client GenerativeClient
}

// NewCompleter creates a new Completer.
func NewCompleter(client GenerativeClient) *Completer {
	return &Completer{client: client}
}

// Complete sends one completion request and returns the response text.
func (c *Completer) Complete(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (string, error) {
	temp := float32(temperature)
	contents := []*Content{{
		Parts: []*Part{{Text: userContent}},
	}}
	config := &GenerateContentConfig{
		Temperature: &temp,
	}
	if systemPrompt != "" {
		config.SystemInstruction = &Content{Parts: []*Part{{Text: systemPrompt}}}
	}

	resp, err := c.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}
	return resp.Text, nil
}
