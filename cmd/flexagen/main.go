package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flexagen/flexagen/pkg/assembly"
	"github.com/flexagen/flexagen/pkg/config"
	"github.com/flexagen/flexagen/pkg/output"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flexagen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "flexagen.yaml", "YAML configuration file (optional)")
	verbose := fs.Bool("v", false, "Log every placement and per-cell metrics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Create a hexa-tetraflexagon from six same sized square images.\n\n")
		fmt.Fprintf(stderr, "usage: flexagen [flags] <imgdir>\n\n")
		fmt.Fprintf(stderr, "imgdir must contain the images 1.png through 6.png (or another image format).\n")
		fmt.Fprintf(stderr, "front.png and back.png are written to the current directory.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	inputDir := fs.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "flexagen: %v\n", err)
		return exitFailure
	}

	level := slog.LevelInfo
	if *verbose || cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	assembly.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer assembly.SetLogger(nil)

	if _, err := os.Stat(*configPath); err == nil {
		assembly.Logger().Info("loaded config", "path", *configPath)
	} else {
		assembly.Logger().Debug("no config file, using defaults", "path", *configPath)
	}

	background, err := cfg.BackgroundColor()
	if err != nil {
		fmt.Fprintf(stderr, "flexagen: %v\n", err)
		return exitFailure
	}

	writer := &output.Writer{
		Dir:       cfg.Output.Dir,
		FrontName: cfg.Output.Front,
		BackName:  cfg.Output.Back,
		SheetMM:   cfg.Output.PDFSheetMM,
	}
	if cfg.Output.PDF {
		writer.PDFName = cfg.Output.PDFName
	}
	if cfg.Output.SaveQuadrants {
		writer.QuadrantDir = cfg.Output.QuadrantDir
	}

	params := &assembly.Params{
		InputDir:   inputDir,
		Extensions: cfg.Input.Extensions,
		Workers:    cfg.Processing.Workers,
		Background: background,
		KeepPieces: cfg.Output.SaveQuadrants,
		Writer:     writer,
	}

	result, err := assembly.NewAssembler(params).Process()
	if err != nil {
		fmt.Fprintf(stderr, "flexagen: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Assembled %dx%d sheets from %d images of %dx%d in %s\n",
		result.Net.Front.Bounds().Dx(), result.Net.Front.Bounds().Dy(),
		len(result.Sources), result.Net.Edge, result.Net.Edge, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(stdout, "Cells painted: %d, opaque: %t\n", result.Metrics.Painted, result.Metrics.Opaque)
	for _, f := range result.Files {
		fmt.Fprintf(stdout, "Wrote %s\n", filepath.Clean(f))
	}

	return exitOK
}
