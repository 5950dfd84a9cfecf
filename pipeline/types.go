package pipeline

import (
	"go.uber.org/zap"

	ridemetrics "github.com/lucasjlepore/ride-metrics"
)

// Options configures the weekly_summary pipeline.
type Options struct {
	DataDir    string
	OutputPath string
	RidesOut   string // optional per-ride CSV artifact
	Format     string // csv|parquet
	Logger     *zap.SugaredLogger
}

// Result returns generated output paths and the aggregated rows.
type Result struct {
	OutputPath string             `json:"output_path"`
	RidesPath  string             `json:"rides_path,omitempty"`
	Rides      []ridemetrics.Ride `json:"rides"`
	Summaries  []WeeklySummary    `json:"summaries"`
}

// WeeklySummary is one aggregated row for an ISO calendar week. Every
// emitted row covers at least one ride.
type WeeklySummary struct {
	Week                string  `json:"week"`
	AvgWatts            float64 `json:"avg_watts"`
	AvgNP               float64 `json:"avg_np"`
	AvgNonCoastingWatts float64 `json:"avg_noncoasting_watts"`
	RideCount           int     `json:"ride_count"`
	TotalKJ             float64 `json:"total_kj"`
}
