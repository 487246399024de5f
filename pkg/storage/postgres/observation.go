package postgres

import (
	"context"

	"github.com/Sander124/pvs-tracker/internal/supply"
	"github.com/Sander124/pvs-tracker/pkg/storage"

	"go.uber.org/zap"
)

var _ storage.Store = (*PostgresClient)(nil)

// Append inserts one observation row. No dedupe, no upsert: duplicate
// timestamps are stored as separate rows.
func (p *PostgresClient) Append(ctx context.Context, obs supply.Observation) error {
	return p.DB.WithContext(ctx).Create(ToObservationRecord(obs)).Error
}

// FetchAll returns every stored observation ascending by timestamp. Rows
// that fail domain validation are skipped with a warning instead of
// failing the whole read.
func (p *PostgresClient) FetchAll(ctx context.Context) ([]supply.Observation, error) {
	var records []ObservationRecord
	err := p.DB.WithContext(ctx).
		Order("observed_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	observations := make([]supply.Observation, 0, len(records))
	for _, r := range records {
		obs, err := r.ToObservation()
		if err != nil {
			p.logger.Warn("skipping malformed observation row",
				zap.Uint("id", r.ID),
				zap.Error(err))
			continue
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

// CountObservations returns the number of stored observations.
func (p *PostgresClient) CountObservations(ctx context.Context) (int64, error) {
	var count int64
	err := p.DB.WithContext(ctx).
		Model(&ObservationRecord{}).
		Count(&count).Error
	return count, err
}
