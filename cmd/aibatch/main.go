// Command aibatch sends every matching file in a directory to an LLM
// chat API and saves the responses next to the sources.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/lzhao/llmbatch"
	"github.com/lzhao/llmbatch/bubbletea"
	"github.com/lzhao/llmbatch/config"
	"github.com/lzhao/llmbatch/fs"
	"github.com/lzhao/llmbatch/gemini"
	"github.com/lzhao/llmbatch/lipgloss"
	"github.com/lzhao/llmbatch/openai"
)

// ErrNoInputFiles is returned when the input directory has no matching files.
var ErrNoInputFiles = errors.New("no input files found")

// ErrAborted is returned when the user quits mid-run.
var ErrAborted = errors.New("aborted")

const usage = `usage: aibatch [flags] <input_dir>
       aibatch config [-c file] <set-key|set-prompt|set-temp|show> [args]

Flags:
  -c  config file (default: standard config path)
  -p  provider name (picker when omitted)
  -m  model display name (picker when omitted)
  -s  prompt name (picker when omitted)
  -t  temperature override
  -e  comma-separated input extensions (default "txt")
  -x  output extension (default "md")
  -plain  sequential output without the TUI
`

// Options are the resolved run parameters.
type Options struct {
	InputDir     string
	Extensions   []string
	OutExt       string
	ModelID      string
	SystemPrompt string
	Temperature  float64
	Plain        bool
}

// App encapsulates the send pipeline for testing.
type App struct {
	Scanner   llmbatch.Scanner
	Reader    llmbatch.ContentReader
	Completer llmbatch.ChatCompleter
	Logger    *logrus.Logger
}

// outputPath returns the response path for an input file.
func outputPath(input, outExt string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return stem + "." + strings.TrimPrefix(outExt, ".")
}

// Pending returns the input files that still need a response, skipping
// files whose output already exists.
func (a *App) Pending(opts Options) (pending, skipped []string, err error) {
	paths, err := a.Scanner.Scan(opts.InputDir, opts.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", opts.InputDir, err)
	}
	for _, path := range paths {
		if _, err := os.Stat(outputPath(path, opts.OutExt)); err == nil {
			skipped = append(skipped, path)
			continue
		}
		pending = append(pending, path)
	}
	return pending, skipped, nil
}

// ProcessFile completes one file and writes the response.
func (a *App) ProcessFile(ctx context.Context, path string, opts Options) (string, error) {
	content, err := a.Reader.ReadFile(path)
	if err != nil {
		return "", err
	}
	response, err := a.Completer.Complete(ctx, opts.ModelID, opts.SystemPrompt, content, opts.Temperature)
	if err != nil {
		return "", err
	}
	out := outputPath(path, opts.OutExt)
	if err := os.WriteFile(out, []byte(response), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// RunPlain processes files sequentially with log output.
func (a *App) RunPlain(ctx context.Context, files []string, opts Options) error {
	var failed int
	for _, path := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out, err := a.ProcessFile(ctx, path, opts)
		if err != nil {
			failed++
			a.Logger.WithError(err).WithField("file", path).Error("request failed")
			continue
		}
		a.Logger.WithFields(logrus.Fields{"file": path, "output": out}).Info("saved response")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) >= 2 && os.Args[1] == "config" {
		return runConfig(os.Args[2:], os.Stdout)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := flag.NewFlagSet("aibatch", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flags.String("c", fs.DefaultConfigPath(), "config file")
	providerName := flags.String("p", "", "provider name")
	modelName := flags.String("m", "", "model display name")
	promptName := flags.String("s", "", "prompt name")
	temperature := flags.Float64("t", -1, "temperature override")
	extensions := flags.String("e", "txt", "comma-separated input extensions")
	outExt := flags.String("x", "md", "output extension")
	plain := flags.Bool("plain", false, "sequential output without the TUI")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected an input directory\n\n%s", usage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider, providerCfg, err := chooseProvider(cfg, *providerName)
	if err != nil {
		return err
	}
	modelID, err := chooseModel(providerCfg, *modelName)
	if err != nil {
		return err
	}
	systemPrompt, err := choosePrompt(cfg, *promptName)
	if err != nil {
		return err
	}

	temp := cfg.Temperature()
	if *temperature >= 0 {
		if *temperature > 2 {
			return fmt.Errorf("temperature %v out of range [0, 2]", *temperature)
		}
		temp = *temperature
	}

	completer, closeCompleter, err := buildCompleter(ctx, cfg, provider, providerCfg)
	if err != nil {
		return err
	}
	defer closeCompleter()

	opts := Options{
		InputDir:     flags.Arg(0),
		Extensions:   strings.Split(*extensions, ","),
		OutExt:       *outExt,
		ModelID:      modelID,
		SystemPrompt: systemPrompt,
		Temperature:  temp,
		Plain:        *plain,
	}

	app := &App{
		Scanner:   fs.NewScanner(),
		Reader:    fs.NewScanner(),
		Completer: completer,
		Logger:    logrus.New(),
	}

	pending, skipped, err := app.Pending(opts)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		app.Logger.WithField("file", path).Info("output exists, skipping")
	}
	if len(pending) == 0 {
		if len(skipped) > 0 {
			fmt.Println("all outputs up to date")
			return nil
		}
		return ErrNoInputFiles
	}

	if opts.Plain {
		return app.RunPlain(ctx, pending, opts)
	}

	m := bubbletea.NewSendModel(pending, func(path string) (string, error) {
		return app.ProcessFile(ctx, path, opts)
	}, lipgloss.DefaultTheme())

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}

	sent := final.(bubbletea.SendModel)
	succeeded, failed := sent.Results()
	fmt.Printf("%d sent, %d failed\n", succeeded, failed)
	if sent.Aborted() {
		return ErrAborted
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(pending))
	}
	return nil
}

// buildCompleter picks the transport for a provider: the native Gemini
// SDK when the provider has no base URL, an OpenAI-compatible client
// otherwise.
func buildCompleter(ctx context.Context, cfg *config.Config, provider string, providerCfg config.Provider) (llmbatch.ChatCompleter, func(), error) {
	apiKey := cfg.APIKey(provider)
	if providerCfg.BaseURL == "" {
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, nil, fmt.Errorf("no API key configured for %s", provider)
		}
		client, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			return nil, nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		return gemini.NewCompleter(client), func() { client.Close() }, nil
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("no API key configured for %s", provider)
	}
	return openai.NewClient(providerCfg.BaseURL, apiKey), func() {}, nil
}

func chooseProvider(cfg *config.Config, name string) (string, config.Provider, error) {
	providers := cfg.Providers()
	if name == "" {
		var err error
		name, err = pick("Select provider", sortedKeys(providers))
		if err != nil {
			return "", config.Provider{}, err
		}
	}
	providerCfg, ok := providers[name]
	if !ok {
		return "", config.Provider{}, fmt.Errorf("unknown provider %q", name)
	}
	return name, providerCfg, nil
}

func chooseModel(providerCfg config.Provider, display string) (string, error) {
	if display == "" {
		var err error
		display, err = pick("Select model", sortedKeys(providerCfg.Models))
		if err != nil {
			return "", err
		}
	}
	modelID, ok := providerCfg.Models[display]
	if !ok {
		return "", fmt.Errorf("unknown model %q", display)
	}
	return modelID, nil
}

func choosePrompt(cfg *config.Config, name string) (string, error) {
	prompts := cfg.Prompts()
	if name == "" {
		var err error
		name, err = pick("Select prompt", sortedKeys(prompts))
		if err != nil {
			return "", err
		}
	}
	prompt, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return prompt, nil
}

// pick runs the picker TUI over options.
func pick(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to pick for %q", strings.ToLower(title))
	}
	final, err := tea.NewProgram(bubbletea.NewPicker(title, options)).Run()
	if err != nil {
		return "", err
	}
	choice, ok := final.(bubbletea.Picker).Choice()
	if !ok {
		return "", ErrAborted
	}
	return choice, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
