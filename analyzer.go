package ridemetrics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tormoder/fit"
)

// Sample is one timestamped power reading extracted from a FIT record.
type Sample struct {
	Timestamp time.Time
	PowerW    float64
}

// Ride holds the derived power metrics for one analyzed FIT activity.
// It is never mutated after creation.
type Ride struct {
	File                string    `json:"file"`
	StartTime           time.Time `json:"start_time"`
	AvgWatts            float64   `json:"avg_watts"`
	AvgNP               float64   `json:"avg_np"`
	AvgNonCoastingWatts float64   `json:"avg_noncoasting_watts"`
	TotalKJ             float64   `json:"total_kj"`
}

// AnalyzeFile decodes an activity FIT file and computes its ride metrics.
// A file that decodes cleanly but yields no usable power samples returns
// (nil, nil): absence of a ride, not an error.
func AnalyzeFile(path string) (*Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	return AnalyzeRecords(filepath.Base(path), activity.Records), nil
}

// AnalyzeRecords computes ride metrics over already-decoded record
// messages. The start time is the first sample's timestamp after sorting.
func AnalyzeRecords(name string, records []*fit.RecordMsg) *Ride {
	samples := extractSamples(records)
	if len(samples) == 0 {
		return nil
	}

	powers := make([]float64, len(samples))
	for i, s := range samples {
		powers[i] = s.PowerW
	}

	return &Ride{
		File:                name,
		StartTime:           samples[0].Timestamp,
		AvgWatts:            averagePower(powers),
		AvgNP:               normalizedPower(powers),
		AvgNonCoastingWatts: nonCoastingAverage(powers),
		TotalKJ:             rideEnergyKJ(samples),
	}
}

// extractSamples keeps records carrying both a valid timestamp and a valid
// power reading, sorted by timestamp ascending. Recording devices may emit
// slightly out-of-order records; anything incomplete is silently skipped.
func extractSamples(records []*fit.RecordMsg) []Sample {
	samples := make([]Sample, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		ts := validTimeOrZero(rec.Timestamp)
		if ts.IsZero() {
			continue
		}
		power, ok := extractPower(rec)
		if !ok {
			continue
		}
		samples = append(samples, Sample{Timestamp: ts, PowerW: power})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	return samples
}

func extractPower(rec *fit.RecordMsg) (float64, bool) {
	if rec.Power == math.MaxUint16 {
		return 0, false
	}
	return float64(rec.Power), true
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}
