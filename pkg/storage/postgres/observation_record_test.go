package postgres

import (
	"testing"
	"time"

	"github.com/Sander124/pvs-tracker/internal/supply"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationRecordRoundTrip(t *testing.T) {
	at := time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)
	obs, err := supply.NewObservation(at, 123456.78)
	require.NoError(t, err)

	record := ToObservationRecord(obs)
	assert.Equal(t, at, record.ObservedAt)
	assert.Equal(t, 123456.78, record.TotalSupply)

	back, err := record.ToObservation()
	require.NoError(t, err)
	assert.Equal(t, obs, back)
}

func TestToObservationRejectsMalformedRow(t *testing.T) {
	record := &ObservationRecord{
		ObservedAt:  time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC),
		TotalSupply: -5,
	}

	_, err := record.ToObservation()
	assert.Error(t, err)

	record = &ObservationRecord{TotalSupply: 100}
	_, err = record.ToObservation()
	assert.Error(t, err)
}
