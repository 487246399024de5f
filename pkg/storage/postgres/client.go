package postgres

import (
	"context"
	"fmt"

	"github.com/Sander124/pvs-tracker/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresClient struct {
	DB     *gorm.DB
	logger *zap.Logger
}

func NewClient(dsn string, logger *zap.Logger) (*PostgresClient, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &PostgresClient{DB: db, logger: logger}, nil
}

// InitializeAndMigrateObservations connects to Postgres, optionally creates the DB, and runs AutoMigrate.
func InitializeAndMigrateObservations(cfg config.PostgresConfig, env string, createDB bool, logger *zap.Logger) (*PostgresClient, error) {
	if createDB {
		if err := CreateDatabase(cfg); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	client, err := NewClient(cfg.DSN(env), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.AutoMigrateObservationRecord(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	if err := client.configurePool(cfg); err != nil {
		return nil, err
	}

	return client, nil
}

func (p *PostgresClient) AutoMigrateObservationRecord() error {
	if err := p.DB.AutoMigrate(&ObservationRecord{}); err != nil {
		return fmt.Errorf("auto-migrate observation table: %w", err)
	}
	return nil
}

func (p *PostgresClient) configurePool(cfg config.PostgresConfig) error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

func (p *PostgresClient) IsHealthy(ctx context.Context) bool {
	db, err := p.DB.DB()
	if err != nil {
		return false
	}
	return db.PingContext(ctx) == nil
}

func (p *PostgresClient) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
