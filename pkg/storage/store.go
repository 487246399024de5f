package storage

import (
	"context"

	"github.com/Sander124/pvs-tracker/internal/supply"
)

// Store is the persistence boundary for supply observations. FetchAll
// returns every stored observation ascending by timestamp; Append inserts
// exactly one observation without deduplication.
type Store interface {
	FetchAll(ctx context.Context) ([]supply.Observation, error)
	Append(ctx context.Context, obs supply.Observation) error
}
