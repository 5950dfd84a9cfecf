package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	ridemetrics "github.com/lucasjlepore/ride-metrics"
)

var summaryHeader = []string{"week", "avg_watts", "avg_np", "avg_noncoasting_watts", "ride_count", "total_kj"}

var ridesHeader = []string{"file", "start_time", "avg_watts", "avg_np", "avg_noncoasting_watts", "total_kj"}

// Run executes the full weekly_summary pipeline: scan the data directory
// for FIT files, analyze each ride, aggregate by ISO week, and write the
// summary artifact. Files without usable power samples are skipped; a
// decoder failure aborts the run.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.DataDir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return nil, fmt.Errorf("output path is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "parquet" {
		return nil, fmt.Errorf("unsupported format %q (expected csv|parquet)", format)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	fitFiles := discoverFitFiles(opts.DataDir)
	logger.Infow("scanning ride directory", "data_dir", opts.DataDir, "fit_files", len(fitFiles))

	rides := make([]ridemetrics.Ride, 0, len(fitFiles))
	for _, path := range fitFiles {
		ride, err := ridemetrics.AnalyzeFile(path)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", path, err)
		}
		if ride == nil {
			logger.Debugw("no usable power samples, skipping", "file", path)
			continue
		}
		logger.Infow("analyzed ride",
			"file", ride.File,
			"start_time", ride.StartTime.Format(time.RFC3339),
			"avg_watts", ride.AvgWatts,
			"total_kj", ride.TotalKJ)
		rides = append(rides, *ride)
	}

	summaries := SummarizeWeeks(rides)

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	switch format {
	case "csv":
		if err := writeSummaryCSV(opts.OutputPath, summaries); err != nil {
			return nil, fmt.Errorf("write summary csv: %w", err)
		}
	case "parquet":
		if err := writeSummaryParquet(opts.OutputPath, summaries); err != nil {
			return nil, fmt.Errorf("write summary parquet: %w", err)
		}
	}

	res := &Result{
		OutputPath: opts.OutputPath,
		Rides:      rides,
		Summaries:  summaries,
	}

	if strings.TrimSpace(opts.RidesOut) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.RidesOut), 0o755); err != nil {
			return nil, fmt.Errorf("create rides output directory: %w", err)
		}
		if err := writeRidesCSV(opts.RidesOut, rides); err != nil {
			return nil, fmt.Errorf("write rides csv: %w", err)
		}
		res.RidesPath = opts.RidesOut
	}

	logger.Infow("weekly summary written",
		"output", opts.OutputPath,
		"weeks", len(summaries),
		"rides", len(rides))
	return res, nil
}

// discoverFitFiles lists the *.fit files (case-insensitive extension)
// directly inside dir, in lexicographic path order. A missing path or a
// non-directory means zero input files, not an error.
func discoverFitFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".fit") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths
}

func writeSummaryCSV(path string, summaries []WeeklySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Week,
			formatFloat(s.AvgWatts),
			formatFloat(s.AvgNP),
			formatFloat(s.AvgNonCoastingWatts),
			strconv.Itoa(s.RideCount),
			formatFloat(s.TotalKJ),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type summaryParquetRow struct {
	Week                string  `parquet:"name=week, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	AvgWatts            float64 `parquet:"name=avg_watts, type=DOUBLE"`
	AvgNP               float64 `parquet:"name=avg_np, type=DOUBLE"`
	AvgNonCoastingWatts float64 `parquet:"name=avg_noncoasting_watts, type=DOUBLE"`
	RideCount           int64   `parquet:"name=ride_count, type=INT64"`
	TotalKJ             float64 `parquet:"name=total_kj, type=DOUBLE"`
}

func writeSummaryParquet(path string, summaries []WeeklySummary) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(summaryParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range summaries {
		row := summaryParquetRow{
			Week:                s.Week,
			AvgWatts:            s.AvgWatts,
			AvgNP:               s.AvgNP,
			AvgNonCoastingWatts: s.AvgNonCoastingWatts,
			RideCount:           int64(s.RideCount),
			TotalKJ:             s.TotalKJ,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func writeRidesCSV(path string, rides []ridemetrics.Ride) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ridesHeader); err != nil {
		return err
	}
	for _, r := range rides {
		row := []string{
			r.File,
			r.StartTime.UTC().Format(time.RFC3339),
			formatFloat(r.AvgWatts),
			formatFloat(r.AvgNP),
			formatFloat(r.AvgNonCoastingWatts),
			formatFloat(r.TotalKJ),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
