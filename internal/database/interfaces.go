package database

import (
	"context"
	"database/sql"
)

// Service manages the launcher's SQLite connection and schema
type Service interface {
	// Connection management
	Connect(ctx context.Context, config *Config) error
	Close() error
	Health(ctx context.Context) error

	// DB exposes the pool to repositories
	DB() *sql.DB

	// Schema
	Migrate(ctx context.Context) error
	GetMigrationVersion(ctx context.Context) (int64, error)

	// Maintenance
	Optimize(ctx context.Context) error
	GetStats() sql.DBStats
}

// MigrationManager applies and inspects schema migrations
type MigrationManager interface {
	RunMigrations(ctx context.Context) error
	GetCurrentVersion(ctx context.Context) (int64, error)
	ValidateMigrations() error
}
