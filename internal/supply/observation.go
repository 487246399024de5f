package supply

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Observation is one recorded total-supply reading.
type Observation struct {
	ObservedAt  time.Time `json:"observed_at"`
	TotalSupply float64   `json:"total_supply"`
}

// NewObservation validates and normalizes a supply reading. Timestamps are
// stored in UTC at second precision; supply must be a finite non-negative
// number, otherwise a single bad reading would poison every derived metric.
func NewObservation(observedAt time.Time, totalSupply float64) (Observation, error) {
	if observedAt.IsZero() {
		return Observation{}, fmt.Errorf("observation timestamp is zero")
	}
	if math.IsNaN(totalSupply) || math.IsInf(totalSupply, 0) {
		return Observation{}, fmt.Errorf("total supply must be a finite number, got %v", totalSupply)
	}
	if totalSupply < 0 {
		return Observation{}, fmt.Errorf("total supply must be non-negative, got %v", totalSupply)
	}

	return Observation{
		ObservedAt:  observedAt.UTC().Truncate(time.Second),
		TotalSupply: totalSupply,
	}, nil
}

// Series is a time-ascending projection of supply observations. It is built
// fresh from the store on every render and never persisted.
type Series struct {
	points []Observation
}

// NewSeries copies the given observations and sorts them ascending by
// timestamp. The sort is stable, so observations sharing a timestamp keep
// their insertion order.
func NewSeries(observations []Observation) Series {
	points := make([]Observation, len(observations))
	copy(points, observations)

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].ObservedAt.Before(points[j].ObservedAt)
	})

	return Series{points: points}
}

func (s Series) Len() int { return len(s.points) }

// Points returns a copy of the underlying observations.
func (s Series) Points() []Observation {
	cp := make([]Observation, len(s.points))
	copy(cp, s.points)
	return cp
}

// Latest returns the chronologically last observation.
func (s Series) Latest() (Observation, bool) {
	if len(s.points) == 0 {
		return Observation{}, false
	}
	return s.points[len(s.points)-1], true
}

// First returns the chronologically first observation.
func (s Series) First() (Observation, bool) {
	if len(s.points) == 0 {
		return Observation{}, false
	}
	return s.points[0], true
}

// FilterRange returns the sub-series whose observations fall within
// [from, to] inclusive. A zero bound leaves that side open. The receiver
// is not modified.
func (s Series) FilterRange(from, to time.Time) Series {
	filtered := make([]Observation, 0, len(s.points))
	for _, p := range s.points {
		if !from.IsZero() && p.ObservedAt.Before(from) {
			continue
		}
		if !to.IsZero() && p.ObservedAt.After(to) {
			continue
		}
		filtered = append(filtered, p)
	}
	return Series{points: filtered}
}
