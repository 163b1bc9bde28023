package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lzhao/llmbatch/config"
	"github.com/lzhao/llmbatch/fs"
)

const configUsage = `usage: aibatch config [-c file] <command>

Commands:
  set-key <provider> <key>   store an API key for a provider
  set-prompt <name> <text>   store a custom system prompt
  set-temp <value>           store the default temperature [0, 2]
  show                       print the effective configuration
`

// runConfig handles the "aibatch config" subcommand.
func runConfig(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("aibatch config", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, configUsage) }
	path := flags.String("c", fs.DefaultConfigPath(), "config file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("expected a config command\n\n%s", configUsage)
	}
	return configCommand(*path, flags.Args(), out)
}

// configCommand applies one mutation (or show) to the config at path.
// Mutations are persisted before returning.
func configCommand(path string, args []string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	switch cmd := args[0]; cmd {
	case "set-key":
		if len(args) != 3 {
			return fmt.Errorf("usage: aibatch config set-key <provider> <key>")
		}
		if _, ok := cfg.Providers()[args[1]]; !ok {
			return fmt.Errorf("unknown provider %q", args[1])
		}
		cfg.SetAPIKey(args[1], args[2])
	case "set-prompt":
		if len(args) != 3 {
			return fmt.Errorf("usage: aibatch config set-prompt <name> <text>")
		}
		cfg.SetPrompt(args[1], args[2])
	case "set-temp":
		if len(args) != 2 {
			return fmt.Errorf("usage: aibatch config set-temp <value>")
		}
		temp, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", args[1], err)
		}
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature %v out of range [0, 2]", temp)
		}
		cfg.SetTemperature(temp)
	case "show":
		printConfig(out, cfg)
		return nil
	default:
		return fmt.Errorf("unknown config command %q\n\n%s", cmd, configUsage)
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "saved %s\n", path)
	return nil
}

// printConfig writes the merged view: the temperature, each provider
// with its key status, and the prompt names.
func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "temperature: %g\n", cfg.Temperature())
	fmt.Fprintln(out, "providers:")
	for _, name := range sortedKeys(cfg.Providers()) {
		status := "no key"
		if cfg.APIKey(name) != "" {
			status = "key set"
		}
		fmt.Fprintf(out, "  %s (%s)\n", name, status)
	}
	fmt.Fprintln(out, "prompts:")
	for _, name := range sortedKeys(cfg.Prompts()) {
		fmt.Fprintf(out, "  %s\n", name)
	}
}
