package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"qlaunch/internal/infrastructure/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

var errNilDB = errors.New("database connection is nil")

// goose keeps dialect and base FS in package globals; set them once so
// concurrent runners (parallel tests) do not race
var (
	gooseConfigOnce sync.Once
	gooseConfigErr  error
)

// MigrationRunner applies the embedded schema migrations
type MigrationRunner struct {
	db     *sql.DB
	logger logging.Logger
}

var _ MigrationManager = (*MigrationRunner)(nil)

// NewMigrationRunner creates a runner for db
func NewMigrationRunner(db *sql.DB, logger logging.Logger) *MigrationRunner {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	gooseConfigOnce.Do(func() {
		goose.SetBaseFS(embedMigrations)
		goose.SetLogger(goose.NopLogger())
		if err := goose.SetDialect("sqlite3"); err != nil {
			gooseConfigErr = fmt.Errorf("failed to set dialect: %w", err)
		}
	})
	return &MigrationRunner{db: db, logger: logger}
}

func (mr *MigrationRunner) ready() error {
	if mr.db == nil {
		return errNilDB
	}
	if gooseConfigErr != nil {
		return fmt.Errorf("goose configuration failed: %w", gooseConfigErr)
	}
	return nil
}

// RunMigrations applies every pending migration
func (mr *MigrationRunner) RunMigrations(ctx context.Context) error {
	if err := mr.ready(); err != nil {
		return err
	}

	mr.logger.Debug("Running database migrations")
	if err := goose.UpContext(ctx, mr.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if version, err := goose.GetDBVersionContext(ctx, mr.db); err == nil {
		mr.logger.Info("Database migrated", "version", version)
	}
	return nil
}

// GetCurrentVersion returns the applied schema version, 0 for a fresh database
func (mr *MigrationRunner) GetCurrentVersion(ctx context.Context) (int64, error) {
	if err := mr.ready(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, mr.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// ValidateMigrations checks that the embedded migrations parse
func (mr *MigrationRunner) ValidateMigrations() error {
	if gooseConfigErr != nil {
		return fmt.Errorf("goose configuration failed: %w", gooseConfigErr)
	}

	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	if len(migrations) == 0 {
		return fmt.Errorf("no migrations found in embedded filesystem")
	}

	mr.logger.Debug("Validated embedded migrations", "count", len(migrations))
	return nil
}
