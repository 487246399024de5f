package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/Sander124/pvs-tracker/config"
	"github.com/Sander124/pvs-tracker/internal/supply"
	"github.com/Sander124/pvs-tracker/pkg/storage/postgres"
)

// go test -v --run TestObservationCRUD
// Requires a local Postgres; skipped when unreachable.
func TestObservationCRUD(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "yourpw",
		DBName:   "pvs_tracker",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	client, err := postgres.NewClient(cfg.DSN("dev"), nil)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	if !client.IsHealthy(ctx) {
		t.Skip("postgres not reachable")
	}

	if err := client.AutoMigrateObservationRecord(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	obs, err := supply.NewObservation(now, 1_234_567.89)
	if err != nil {
		t.Fatalf("failed to build observation: %v", err)
	}

	before, err := client.CountObservations(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}

	// Create
	if err := client.Append(ctx, obs); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	// Duplicate timestamps are legal: the same observation inserts again.
	if err := client.Append(ctx, obs); err != nil {
		t.Fatalf("duplicate append failed: %v", err)
	}

	after, err := client.CountObservations(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if after != before+2 {
		t.Errorf("expected %d observations, got %d", before+2, after)
	}

	// Read back and verify the round trip
	all, err := client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected at least one observation")
	}

	var found bool
	for _, got := range all {
		if got.ObservedAt.Equal(now) && got.TotalSupply == obs.TotalSupply {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("round trip lost the observation: want %v at %s", obs.TotalSupply, now)
	}

	// Ascending order
	for i := 1; i < len(all); i++ {
		if all[i].ObservedAt.Before(all[i-1].ObservedAt) {
			t.Errorf("observations out of order at index %d", i)
		}
	}
}
