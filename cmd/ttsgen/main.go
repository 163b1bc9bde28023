// Command ttsgen reads every text file in a folder through a local TTS
// service and writes one combined MP3 per file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lzhao/llmbatch/tts"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := flag.NewFlagSet("ttsgen", flag.ContinueOnError)
	host := flags.String("host", "127.0.0.1", "TTS service host")
	port := flags.Int("port", 8774, "TTS service port")
	voice := flags.String("voice", "", "voice name (service default when empty)")
	speed := flags.Int("speed", 50, "speech speed (0-100)")
	volume := flags.Int("volume", 50, "speech volume (0-100)")
	pitch := flags.Int("pitch", 50, "speech pitch (0-100)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: ttsgen [flags] <folder>")
	}

	logger := logrus.New()
	client := tts.NewClient(*host, *port)

	if err := client.Voices(ctx); err != nil {
		return fmt.Errorf("checking TTS service: %w", err)
	}

	params := tts.Params{Speed: *speed, Volume: *volume, Pitch: *pitch, Voice: *voice}
	synth := tts.NewSynthesizer(client, params, logger)

	results, err := synth.ProcessDir(ctx, flags.Arg(0))
	if err != nil {
		return err
	}

	var succeeded, failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		succeeded++
	}
	fmt.Printf("synthesized %d files, %d failed\n", succeeded, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
