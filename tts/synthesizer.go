package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// sentenceEnd matches a run of text up to and including a CJK sentence
// terminator.
var sentenceEnd = regexp.MustCompile(`[^。！？]*[。！？]`)

// SplitSentences cuts text on 。！？ keeping the terminator with each
// sentence. A trailing fragment without a terminator becomes its own
// sentence. Blank fragments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if s := strings.TrimSpace(rest[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		rest = rest[loc[1]:]
	}
	if s := strings.TrimSpace(rest); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Speaker synthesizes a single piece of text.
type Speaker interface {
	Synthesize(ctx context.Context, text string, params Params) ([]byte, error)
}

// Synthesizer converts every text file in a directory to audio,
// sentence by sentence.
type Synthesizer struct {
	Speaker Speaker
	Params  Params
	Logger  *logrus.Logger
}

// NewSynthesizer wires a Synthesizer around a speaker.
func NewSynthesizer(speaker Speaker, params Params, logger *logrus.Logger) *Synthesizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Synthesizer{Speaker: speaker, Params: params, Logger: logger}
}

// FileResult reports one processed text file.
type FileResult struct {
	Path       string
	OutputPath string
	Sentences  int
	Failed     int
	Err        error
}

// ProcessDir synthesizes every top-level .txt file in dir. Sentence
// audio is written to dir/temp and concatenated into
// dir/output/<stem>_combined.mp3; temp files are removed afterwards.
// A file with no synthesized sentences is reported as failed.
func (s *Synthesizer) ProcessDir(ctx context.Context, dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	tempDir := filepath.Join(dir, "temp")
	outputDir := filepath.Join(dir, "output")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	var results []FileResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		result := s.processFile(ctx, filepath.Join(dir, entry.Name()), tempDir, outputDir)
		if result.Err != nil {
			s.Logger.WithError(result.Err).WithField("file", result.Path).Warn("file failed")
		} else {
			s.Logger.WithFields(logrus.Fields{
				"file":      result.Path,
				"sentences": result.Sentences,
				"failed":    result.Failed,
			}).Info("file synthesized")
		}
		results = append(results, result)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (s *Synthesizer) processFile(ctx context.Context, path, tempDir, outputDir string) FileResult {
	result := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	sentences := SplitSentences(string(data))
	result.Sentences = len(sentences)
	if len(sentences) == 0 {
		result.Err = fmt.Errorf("no sentences in %s", filepath.Base(path))
		return result
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var combined []byte
	var tempFiles []string
	for i, sentence := range sentences {
		audio, err := s.Speaker.Synthesize(ctx, sentence, s.Params)
		if err != nil {
			s.Logger.WithError(err).WithField("sentence", i).Warn("sentence failed")
			result.Failed++
			continue
		}
		tempPath := filepath.Join(tempDir, fmt.Sprintf("%s_%04d.mp3", stem, i))
		if err := os.WriteFile(tempPath, audio, 0o644); err != nil {
			result.Failed++
			continue
		}
		tempFiles = append(tempFiles, tempPath)
		combined = append(combined, audio...)
	}

	if len(combined) == 0 {
		result.Err = fmt.Errorf("all sentences failed for %s", filepath.Base(path))
		removeAll(tempFiles)
		return result
	}

	result.OutputPath = filepath.Join(outputDir, stem+"_combined.mp3")
	if err := os.WriteFile(result.OutputPath, combined, 0o644); err != nil {
		result.Err = err
	}
	removeAll(tempFiles)
	return result
}

func removeAll(paths []string) {
	for _, path := range paths {
		os.Remove(path)
	}
}
