package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
)

// SQLiteService implements Service on top of go-sqlite3.
//
// Lifecycle: NewSQLiteService, Connect, optionally Migrate, hand DB() to
// repositories, Close.
type SQLiteService struct {
	db              *sql.DB
	config          *Config
	migrationRunner MigrationManager
	logger          logging.Logger
}

var _ Service = (*SQLiteService)(nil)

// NewSQLiteService creates an unconnected service
func NewSQLiteService(logger logging.Logger) *SQLiteService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteService{logger: logger}
}

// Connect opens and pings the database described by config. An existing
// connection is closed first.
func (s *SQLiteService) Connect(ctx context.Context, config *Config) error {
	if config == nil {
		return apperrors.HandleValidationError("Connect", "config", "nil", "database config is required")
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("Failed to close existing database connection", "error", err)
		}
		s.db = nil
		s.migrationRunner = nil
	}

	start := time.Now()
	db, err := sql.Open("sqlite3", config.GetConnectionString())
	if err != nil {
		return apperrors.HandleConnectionError("Connect", fmt.Sprintf("failed to open database: %v", err))
	}
	s.configureConnectionPool(db, config)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return apperrors.HandleConnectionError("Connect", fmt.Sprintf("failed to ping database: %v", err))
	}

	s.db = db
	s.config = config
	s.migrationRunner = NewMigrationRunner(db, s.logger)

	logging.LogOperation(s.logger, "Connect", time.Since(start), map[string]interface{}{"path": config.Path})
	s.logger.Info("Connected to SQLite database", "path", config.Path)
	return nil
}

// Close releases the connection pool. Closing an unconnected service is a no-op.
func (s *SQLiteService) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return apperrors.HandleConnectionError("Close", fmt.Sprintf("failed to close database: %v", err))
	}
	s.db = nil
	s.migrationRunner = nil

	s.logger.Info("Closed SQLite database connection")
	return nil
}

// Migrate validates and applies the embedded migrations
func (s *SQLiteService) Migrate(ctx context.Context) error {
	if s.db == nil {
		return apperrors.HandleConnectionError("Migrate", "database not connected")
	}
	if s.migrationRunner == nil {
		return apperrors.HandleValidationError("Migrate", "migrationRunner", "nil", "migration runner not initialized")
	}

	if err := s.migrationRunner.ValidateMigrations(); err != nil {
		return apperrors.NewWithContext("Migrate", err, apperrors.ErrCodeSchema, map[string]string{"phase": "validation"})
	}
	if err := s.migrationRunner.RunMigrations(ctx); err != nil {
		return apperrors.WrapWithContext("Migrate", err, map[string]string{"phase": "execution"})
	}
	return nil
}

// Health pings the database and runs a trivial query
func (s *SQLiteService) Health(ctx context.Context) error {
	if s.db == nil {
		return apperrors.HandleConnectionError("Health", "database not connected")
	}
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.WrapWithContext("Health", err, map[string]string{"phase": "ping"})
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return apperrors.WrapWithContext("Health", err, map[string]string{"phase": "query"})
	}
	if result != 1 {
		return apperrors.HandleValidationError("Health", "query_result", fmt.Sprintf("%d", result), "expected result 1")
	}
	return nil
}

// DB returns the connection pool, nil before Connect
func (s *SQLiteService) DB() *sql.DB {
	return s.db
}

// Config returns the settings of the current connection
func (s *SQLiteService) Config() *Config {
	return s.config
}

// GetMigrationVersion returns the applied schema version
func (s *SQLiteService) GetMigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, apperrors.HandleConnectionError("GetMigrationVersion", "database not connected")
	}
	if s.migrationRunner == nil {
		return 0, apperrors.HandleValidationError("GetMigrationVersion", "migrationRunner", "nil", "migration runner not initialized")
	}

	version, err := s.migrationRunner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, apperrors.Wrap("GetMigrationVersion", err)
	}
	return version, nil
}

// GetStats returns pool statistics, zero before Connect
func (s *SQLiteService) GetStats() sql.DBStats {
	if s.db == nil {
		return sql.DBStats{}
	}
	return s.db.Stats()
}

// Optimize runs ANALYZE and VACUUM. The WAL checkpoint and PRAGMA optimize
// steps are best effort.
func (s *SQLiteService) Optimize(ctx context.Context) error {
	if s.db == nil {
		return apperrors.HandleConnectionError("Optimize", "database not connected")
	}
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return apperrors.WrapWithContext("Optimize", err, map[string]string{"phase": "analyze"})
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("wal_checkpoint failed", "error", err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return apperrors.WrapWithContext("Optimize", err, map[string]string{"phase": "vacuum"})
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		s.logger.Warn("PRAGMA optimize failed", "error", err)
	}

	logging.LogOperation(s.logger, "Optimize", time.Since(start), nil)
	return nil
}

// configureConnectionPool sizes the pool for SQLite. Without WAL a single
// connection avoids SQLITE_BUSY between writers; with WAL a few readers are
// allowed. In-memory databases never recycle their only connection.
func (s *SQLiteService) configureConnectionPool(db *sql.DB, config *Config) {
	switch {
	case config.ForceSingleConnection || config.IsInMemory():
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.logger.Debug("Configured SQLite for single connection mode", "in_memory", config.IsInMemory())
	case !strings.EqualFold(config.JournalMode, "WAL"):
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.logger.Debug("Configured SQLite for single connection mode (non-WAL journal mode)", "journal_mode", config.JournalMode)
	default:
		maxConns := config.MaxConnections
		if maxConns <= 0 || maxConns > 4 {
			maxConns = 4
		}
		idleConns := max(min(config.MaxIdleConns, maxConns), 1)
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(idleConns)
		s.logger.Debug("Configured SQLite connection pool (WAL mode)", "max_open_conns", maxConns, "max_idle_conns", idleConns)
	}

	if config.IsInMemory() {
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
}
