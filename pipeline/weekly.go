package pipeline

import (
	"fmt"
	"sort"

	ridemetrics "github.com/lucasjlepore/ride-metrics"
)

// WeekKey identifies an ISO 8601 calendar week (Monday start, first
// Thursday rule). Late-December rides can belong to week 1 of the next
// ISO year; grouping follows the ISO week, not the calendar month.
type WeekKey struct {
	Year int
	Week int
}

// Label formats the key as e.g. "2024-W05".
func (k WeekKey) Label() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

func weekKeyOf(r ridemetrics.Ride) WeekKey {
	year, week := r.StartTime.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// GroupByWeek buckets rides by the ISO week of their start time.
func GroupByWeek(rides []ridemetrics.Ride) map[WeekKey][]ridemetrics.Ride {
	grouped := make(map[WeekKey][]ridemetrics.Ride)
	for _, r := range rides {
		key := weekKeyOf(r)
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// SummarizeWeeks folds rides into one row per ISO week, ordered ascending
// by (year, week). Per-ride metrics are averaged across the group; total
// energy is summed.
func SummarizeWeeks(rides []ridemetrics.Ride) []WeeklySummary {
	grouped := GroupByWeek(rides)

	keys := make([]WeekKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Week < keys[j].Week
	})

	summaries := make([]WeeklySummary, 0, len(keys))
	for _, key := range keys {
		group := grouped[key]
		s := WeeklySummary{
			Week:      key.Label(),
			RideCount: len(group),
		}
		for _, r := range group {
			s.AvgWatts += r.AvgWatts
			s.AvgNP += r.AvgNP
			s.AvgNonCoastingWatts += r.AvgNonCoastingWatts
			s.TotalKJ += r.TotalKJ
		}
		n := float64(len(group))
		s.AvgWatts /= n
		s.AvgNP /= n
		s.AvgNonCoastingWatts /= n
		summaries = append(summaries, s)
	}
	return summaries
}
