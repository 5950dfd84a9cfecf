package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasjlepore/ride-metrics/pipeline"
)

func main() {
	var (
		dataDir  = flag.String("data-dir", "data", "Directory containing .fit files")
		output   = flag.String("out", filepath.Join("output", "weekly_summary.csv"), "Output summary path")
		ridesOut = flag.String("rides", "", "Optional per-ride CSV output path")
		format   = flag.String("format", "csv", "Summary format: csv|parquet")
		debug    = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--data-dir data] [--out output/weekly_summary.csv] [--rides rides.csv] [--format csv|parquet]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*dataDir) == "" || strings.TrimSpace(*output) == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "weekly_summary failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	result, err := pipeline.Run(pipeline.Options{
		DataDir:    *dataDir,
		OutputPath: *output,
		RidesOut:   *ridesOut,
		Format:     *format,
		Logger:     logger.Sugar(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "weekly_summary failed: %v\n", err)
		os.Exit(1)
	}

	if len(result.Summaries) == 0 {
		fmt.Println("No FIT files found or no usable data.")
		return
	}
	fmt.Printf("Wrote weekly summary to %s\n", result.OutputPath)
	if result.RidesPath != "" {
		fmt.Printf("Wrote per-ride metrics to %s\n", result.RidesPath)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
