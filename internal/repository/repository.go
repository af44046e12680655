package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qlaunch/internal/database"
	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
)

// SQLiteRepository implements LaunchRepository and ClipboardRepository
type SQLiteRepository struct {
	db          *sql.DB
	retryConfig *apperrors.RetryConfig
	logger      logging.Logger
	now         func() time.Time
}

var (
	_ LaunchRepository    = (*SQLiteRepository)(nil)
	_ ClipboardRepository = (*SQLiteRepository)(nil)
)

// NewSQLiteRepository creates a repository over a connected service
func NewSQLiteRepository(dbService database.Service, logger logging.Logger) *SQLiteRepository {
	return NewSQLiteRepositoryWithConfig(dbService, nil, logger)
}

// NewSQLiteRepositoryWithConfig is NewSQLiteRepository with a custom retry policy
func NewSQLiteRepositoryWithConfig(dbService database.Service, retryConfig *apperrors.RetryConfig, logger logging.Logger) *SQLiteRepository {
	if retryConfig == nil {
		retryConfig = apperrors.DefaultRetryConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteRepository{
		db:          dbService.DB(),
		retryConfig: retryConfig,
		logger:      logger,
		now:         time.Now,
	}
}

// SetRetryConfig replaces the retry policy; nil is ignored
func (r *SQLiteRepository) SetRetryConfig(config *apperrors.RetryConfig) {
	if config != nil {
		r.retryConfig = config
	}
}

// GetRetryConfig returns the current retry policy
func (r *SQLiteRepository) GetRetryConfig() *apperrors.RetryConfig {
	return r.retryConfig
}

// WithTransaction runs fn inside a transaction and commits it. Retryable
// failures (busy database, lost connection) rerun the whole transaction.
func (r *SQLiteRepository) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if r.db == nil {
		return apperrors.HandleConnectionError("WithTransaction", "database not connected")
	}
	start := time.Now()

	err := apperrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return r.fail("WithTransaction.Begin", err, nil)
		}

		committed := false
		defer func() {
			if committed {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Debug("Failed to rollback transaction", "rollback_error", rbErr)
			}
		}()

		if err := fn(tx); err != nil {
			r.logger.Debug("Transaction function failed", "error", err)
			return err
		}
		if err := tx.Commit(); err != nil {
			return r.fail("WithTransaction.Commit", err, nil)
		}
		committed = true
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "WithTransaction", time.Since(start), nil)
	}
	return err
}

// query runs a read with retry
func (r *SQLiteRepository) query(ctx context.Context, op string, fn func() error) error {
	if r.db == nil {
		return apperrors.HandleConnectionError(op, "database not connected")
	}
	return apperrors.WithRetry(ctx, r.retryConfig, func() error {
		if err := fn(); err != nil {
			return r.fail(op, err, nil)
		}
		return nil
	})
}

// fail classifies err under op. Retryable failures are logged at DEBUG
// since the retry loop may still succeed.
func (r *SQLiteRepository) fail(op string, err error, ctx map[string]string) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewWithContext(op, err, apperrors.ClassifyError(err), ctx)
	}
	if appErr.IsRetryable() {
		r.logger.Debug("Retryable database error", "operation", op, "error", err)
	} else {
		logging.LogError(r.logger, appErr, op, nil)
	}
	return appErr
}
