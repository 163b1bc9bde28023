// Command filetools bundles the small file maintenance helpers used
// around batch runs: moving inputs, converting log and bookmark files,
// and renaming extractor output to match subtitle files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lzhao/llmbatch/convert"
	"github.com/lzhao/llmbatch/fs"
)

const usage = `usage: filetools <command> [flags]

Commands:
  move       Move files of given extensions into another tree
  log2json   Copy every .log file as a .json sibling
  json2pbf   Convert bookmark JSON files to PotPlayer .pbf
  srtrename  Rename JSON files to match sorted SRT names
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("%s", usage)
	}

	logger := logrus.New()

	switch os.Args[1] {
	case "move":
		return runMove(logger, os.Args[2:])
	case "log2json":
		return runLog2JSON(logger, os.Args[2:])
	case "json2pbf":
		return runJSON2PBF(logger, os.Args[2:])
	case "srtrename":
		return runSRTRename(logger, os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}
}

func runMove(logger *logrus.Logger, args []string) error {
	flags := flag.NewFlagSet("filetools move", flag.ContinueOnError)
	extensions := flags.String("e", "srt", "comma-separated extensions to move")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: filetools move [-e exts] <src_dir> <dst_dir>")
	}

	moved, err := fs.NewMover().Move(flags.Arg(0), flags.Arg(1), strings.Split(*extensions, ","))
	if err != nil {
		return err
	}
	for _, m := range moved {
		logger.WithFields(logrus.Fields{"from": m.From, "to": m.To}).Info("moved")
	}
	fmt.Printf("moved %d files\n", len(moved))
	return nil
}

func runLog2JSON(logger *logrus.Logger, args []string) error {
	flags := flag.NewFlagSet("filetools log2json", flag.ContinueOnError)
	output := flags.String("o", "", "output root (default: in place)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: filetools log2json [-o dir] <dir>")
	}

	inputDir := flags.Arg(0)
	outputDir := *output
	if outputDir == "" {
		outputDir = inputDir
	}

	copied, err := fs.CopyLogsAsJSON(inputDir, outputDir)
	if err != nil {
		return err
	}
	for _, path := range copied {
		logger.WithField("file", path).Info("copied")
	}
	fmt.Printf("copied %d log files\n", len(copied))
	return nil
}

func runJSON2PBF(logger *logrus.Logger, args []string) error {
	flags := flag.NewFlagSet("filetools json2pbf", flag.ContinueOnError)
	output := flags.String("o", "", "output directory (default: input dir)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: filetools json2pbf [-o dir] <dir>")
	}

	summary, err := convert.ConvertDir(flags.Arg(0), *output)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		logger.WithField("failed", summary.Failed).Warn("some files could not be converted")
	}
	fmt.Printf("converted %d of %d bookmark files\n", summary.Converted, summary.Files)
	return nil
}

func runSRTRename(logger *logrus.Logger, args []string) error {
	flags := flag.NewFlagSet("filetools srtrename", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: filetools srtrename <srt_dir> <json_dir>")
	}

	renamed, err := fs.RenameBySRTOrder(flags.Arg(0), flags.Arg(1))
	if err != nil {
		return err
	}
	for _, r := range renamed {
		logger.WithFields(logrus.Fields{"from": r.Old, "to": r.New}).Info("renamed")
	}
	fmt.Printf("renamed %d files\n", len(renamed))
	return nil
}
