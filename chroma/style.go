package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"

	"github.com/lzhao/llmbatch"
)

// StyleFromPalette returns a function that maps chroma token types to
// llmbatch styles based on the provided palette colors. The mapping covers
// the token types the JSON lexer emits.
func StyleFromPalette(p llmbatch.Palette) StyleFunc {
	return func(tt chromalib.TokenType) llmbatch.Style {
		switch tt {
		// Object keys
		case chromalib.NameTag:
			return llmbatch.Style{Foreground: p.Key, Bold: true}

		// Strings
		case chromalib.String, chromalib.StringDouble, chromalib.StringSingle,
			chromalib.StringEscape, chromalib.StringInterpol:
			return llmbatch.Style{Foreground: p.String}

		// Numbers
		case chromalib.Number, chromalib.NumberFloat, chromalib.NumberInteger,
			chromalib.NumberIntegerLong:
			return llmbatch.Style{Foreground: p.Number}

		// true/false/null
		case chromalib.KeywordConstant, chromalib.NameConstant:
			return llmbatch.Style{Foreground: p.Constant, Bold: true}

		// Punctuation
		case chromalib.Punctuation:
			return llmbatch.Style{Foreground: p.Punctuation}

		default:
			return llmbatch.Style{}
		}
	}
}
