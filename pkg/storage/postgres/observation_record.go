package postgres

import (
	"time"

	"github.com/Sander124/pvs-tracker/internal/supply"
)

// ObservationRecord represents one supply reading stored in the database.
// observed_at is deliberately not unique: duplicate and out-of-order
// timestamps are accepted as-is.
type ObservationRecord struct {
	ID uint `gorm:"primaryKey"`

	ObservedAt  time.Time `gorm:"not null;index:idx_observation_observed_at"`
	TotalSupply float64   `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (ObservationRecord) TableName() string {
	return "supply_observation"
}

// ToObservationRecord converts a domain observation into a DB record.
func ToObservationRecord(obs supply.Observation) *ObservationRecord {
	return &ObservationRecord{
		ObservedAt:  obs.ObservedAt,
		TotalSupply: obs.TotalSupply,
	}
}

// ToObservation converts a DB record back into the typed domain model,
// re-validating on the way out so malformed rows never reach the metrics
// engine.
func (r *ObservationRecord) ToObservation() (supply.Observation, error) {
	return supply.NewObservation(r.ObservedAt, r.TotalSupply)
}
