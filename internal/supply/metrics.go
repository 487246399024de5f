package supply

import "time"

// Snapshot holds windowed percentage changes of total supply. Windows are
// measured backward from the latest observation's timestamp, not wall-clock
// time, so a stale series still yields stable numbers.
type Snapshot struct {
	Change24h   float64 `json:"change_24h"`
	Change7d    float64 `json:"change_7d"`
	Change30d   float64 `json:"change_30d"`
	ChangeTotal float64 `json:"change_total"`
}

const (
	window24h = 24 * time.Hour
	window7d  = 7 * 24 * time.Hour
	window30d = 30 * 24 * time.Hour
)

// Compute derives the percentage-change snapshot from a time-ascending
// series. A series with fewer than two points reports 0 for every metric,
// as does any window containing fewer than two points or a zero baseline.
func Compute(series Series) Snapshot {
	if series.Len() < 2 {
		return Snapshot{}
	}

	latest, _ := series.Latest()
	first, _ := series.First()

	return Snapshot{
		Change24h:   windowChange(series, latest, window24h),
		Change7d:    windowChange(series, latest, window7d),
		Change30d:   windowChange(series, latest, window30d),
		ChangeTotal: percentChange(first.TotalSupply, latest.TotalSupply),
	}
}

// windowChange selects all points at or after latest-window and compares the
// latest supply against the earliest surviving point.
func windowChange(series Series, latest Observation, window time.Duration) float64 {
	cutoff := latest.ObservedAt.Add(-window)

	var baseline Observation
	count := 0
	for _, p := range series.points {
		if p.ObservedAt.Before(cutoff) {
			continue
		}
		if count == 0 {
			baseline = p
		}
		count++
	}

	if count < 2 {
		return 0
	}
	return percentChange(baseline.TotalSupply, latest.TotalSupply)
}

func percentChange(baseline, latest float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (latest - baseline) / baseline * 100
}
