package supply

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObservationNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	at := time.Date(2025, 3, 1, 9, 30, 15, 123456789, loc)

	o, err := NewObservation(at, 1_000_000)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, o.ObservedAt.Location())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 30, 15, 0, time.UTC), o.ObservedAt)
}

func TestNewObservationRejectsNegativeSupply(t *testing.T) {
	_, err := NewObservation(anchor, -1)
	assert.Error(t, err)
}

func TestNewObservationRejectsNonFiniteSupply(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewObservation(anchor, v)
		assert.Error(t, err, "value %v", v)
	}
}

func TestNewObservationRejectsZeroTimestamp(t *testing.T) {
	_, err := NewObservation(time.Time{}, 100)
	assert.Error(t, err)
}

func TestNewSeriesSortsAscending(t *testing.T) {
	series := NewSeries([]Observation{
		obs(t, anchor.Add(time.Hour), 2),
		obs(t, anchor.Add(-time.Hour), 1),
		obs(t, anchor, 3),
	})

	points := series.Points()
	require.Len(t, points, 3)
	assert.Equal(t, 1.0, points[0].TotalSupply)
	assert.Equal(t, 3.0, points[1].TotalSupply)
	assert.Equal(t, 2.0, points[2].TotalSupply)
}

func TestNewSeriesKeepsDuplicateTimestamps(t *testing.T) {
	// Duplicates are legal; stable sort keeps insertion order.
	series := NewSeries([]Observation{
		obs(t, anchor, 10),
		obs(t, anchor, 20),
	})

	points := series.Points()
	require.Len(t, points, 2)
	assert.Equal(t, 10.0, points[0].TotalSupply)
	assert.Equal(t, 20.0, points[1].TotalSupply)
}

func TestNewSeriesCopiesInput(t *testing.T) {
	input := []Observation{
		obs(t, anchor.Add(time.Hour), 2),
		obs(t, anchor, 1),
	}
	series := NewSeries(input)

	input[0].TotalSupply = 999

	points := series.Points()
	assert.Equal(t, 1.0, points[0].TotalSupply)
	assert.Equal(t, 2.0, points[1].TotalSupply)
}

func TestFilterRangeInclusiveBounds(t *testing.T) {
	day := 24 * time.Hour
	series := NewSeries([]Observation{
		obs(t, anchor.Add(-3*day), 1),
		obs(t, anchor.Add(-2*day), 2),
		obs(t, anchor.Add(-day), 3),
		obs(t, anchor, 4),
	})

	filtered := series.FilterRange(anchor.Add(-2*day), anchor.Add(-day))

	points := filtered.Points()
	require.Len(t, points, 2)
	assert.Equal(t, 2.0, points[0].TotalSupply)
	assert.Equal(t, 3.0, points[1].TotalSupply)

	// Original series is untouched.
	assert.Equal(t, 4, series.Len())
}

func TestFilterRangeOpenBounds(t *testing.T) {
	series := NewSeries([]Observation{
		obs(t, anchor.Add(-time.Hour), 1),
		obs(t, anchor, 2),
	})

	assert.Equal(t, 2, series.FilterRange(time.Time{}, time.Time{}).Len())
	assert.Equal(t, 1, series.FilterRange(anchor, time.Time{}).Len())
	assert.Equal(t, 1, series.FilterRange(time.Time{}, anchor.Add(-time.Hour)).Len())
}

func TestFilterRangeDoesNotAffectMetrics(t *testing.T) {
	day := 24 * time.Hour
	series := NewSeries([]Observation{
		obs(t, anchor.Add(-10*day), 1000),
		obs(t, anchor.Add(-day), 950),
		obs(t, anchor, 900),
	})

	full := Compute(series)
	series.FilterRange(anchor.Add(-day), anchor)
	afterFilter := Compute(series)

	assert.Equal(t, full, afterFilter)
}
