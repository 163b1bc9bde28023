package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	gloss "github.com/charmbracelet/lipgloss"

	"github.com/lzhao/llmbatch"
	"github.com/lzhao/llmbatch/chroma"
	"github.com/lzhao/llmbatch/jsonl"
	"github.com/lzhao/llmbatch/lipgloss"
)

// styled builds a lipgloss style from a theme color pair.
func styled(pair llmbatch.ColorPair) gloss.Style {
	style := gloss.NewStyle()
	if pair.Foreground != "" {
		style = style.Foreground(gloss.Color(pair.Foreground))
	}
	if pair.Background != "" {
		style = style.Background(gloss.Color(pair.Background))
	}
	return style
}

// runPreview pretty-prints the first records of a batch file with JSON
// syntax highlighting.
func runPreview(args []string) error {
	flags := flag.NewFlagSet("batchgen preview", flag.ContinueOnError)
	count := flags.Int("c", 3, "number of records to show")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: batchgen preview [-c count] <batch.jsonl>")
	}

	lines, skipped, err := jsonl.NewReader().Read(flags.Arg(0))
	if err != nil {
		return err
	}

	theme := lipgloss.DefaultTheme()
	tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette()))
	if err != nil {
		return err
	}

	shown := 0
	for _, line := range lines {
		if shown >= *count {
			break
		}
		pretty, err := json.MarshalIndent(line.Record, "", "  ")
		if err != nil {
			continue
		}
		header := styled(theme.Styles().Accent).Render(fmt.Sprintf("── record %d ──", line.Num))
		fmt.Println(header)
		fmt.Println(renderLines(tokenizer.TokenizeLines("json", string(pretty))))
		shown++
	}

	if len(skipped) > 0 {
		fmt.Fprintf(os.Stderr, "%d unparseable lines skipped\n", len(skipped))
	}
	return nil
}

// renderLines renders per-line token slices, styling each token and
// rejoining the lines with newlines.
func renderLines(lines [][]llmbatch.Token) string {
	rendered := make([]string, len(lines))
	for i, tokens := range lines {
		var s strings.Builder
		for _, token := range tokens {
			s.WriteString(renderToken(token))
		}
		rendered[i] = s.String()
	}
	return strings.Join(rendered, "\n")
}

func renderToken(token llmbatch.Token) string {
	if token.Style.Foreground == "" && !token.Style.Bold {
		return token.Text
	}
	style := gloss.NewStyle().Bold(token.Style.Bold)
	if token.Style.Foreground != "" {
		style = style.Foreground(gloss.Color(token.Style.Foreground))
	}
	return style.Render(token.Text)
}
