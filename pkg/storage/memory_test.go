package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Sander124/pvs-tracker/internal/supply"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	at := time.Date(2025, 5, 20, 14, 45, 30, 0, time.UTC)
	obs, err := supply.NewObservation(at, 987654.32)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, obs))

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	assert.True(t, all[0].ObservedAt.Equal(at))
	assert.Equal(t, 987654.32, all[0].TotalSupply)
}

func TestMemoryStoreFetchAllSortsAscending(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	later, err := supply.NewObservation(time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)
	earlier, err := supply.NewObservation(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, later))
	require.NoError(t, store.Append(ctx, earlier))

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1.0, all[0].TotalSupply)
	assert.Equal(t, 2.0, all[1].TotalSupply)
}
