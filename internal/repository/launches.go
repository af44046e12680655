package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/types"
)

const upsertLaunch = `
INSERT INTO app_launches (name, path, launch_count, last_launched_at)
VALUES (?, ?, 1, ?)
ON CONFLICT(name) DO UPDATE SET
    launch_count     = app_launches.launch_count + 1,
    path             = CASE WHEN excluded.path <> '' THEN excluded.path ELSE app_launches.path END,
    last_launched_at = excluded.last_launched_at`

// RecordLaunch counts one more launch of name. A non-empty path replaces
// the stored one.
func (r *SQLiteRepository) RecordLaunch(ctx context.Context, name, path string) error {
	start := time.Now()

	if strings.TrimSpace(name) == "" {
		err := apperrors.HandleValidationError("RecordLaunch", "name", name, "app name is empty or whitespace")
		logging.LogError(r.logger, err, "RecordLaunch", nil)
		return err
	}

	launchedAt := r.now().UnixMilli()
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertLaunch, name, path, launchedAt); err != nil {
			return r.fail("RecordLaunch", err, map[string]string{"app_name": name})
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogOperation(r.logger, "RecordLaunch", time.Since(start), map[string]interface{}{"app_name": name})
	return nil
}

// GetLaunchCounts maps every recorded application name to its launch count
func (r *SQLiteRepository) GetLaunchCounts(ctx context.Context) (map[string]int64, error) {
	var counts map[string]int64
	err := r.query(ctx, "GetLaunchCounts", func() error {
		rows, err := r.db.QueryContext(ctx, "SELECT name, launch_count FROM app_launches")
		if err != nil {
			return err
		}
		defer rows.Close()

		counts = make(map[string]int64)
		for rows.Next() {
			var (
				name  string
				count int64
			)
			if err := rows.Scan(&name, &count); err != nil {
				return err
			}
			counts[name] = count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GetRecentLaunches returns up to limit records ordered by last launch,
// newest first. Ties are ordered by name.
func (r *SQLiteRepository) GetRecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	if limit <= 0 {
		return nil, apperrors.HandleValidationError("GetRecentLaunches", "limit", strconv.Itoa(limit), "limit must be positive")
	}

	var records []types.LaunchRecord
	err := r.query(ctx, "GetRecentLaunches", func() error {
		rows, err := r.db.QueryContext(ctx, `
SELECT name, path, launch_count, last_launched_at
FROM app_launches
ORDER BY last_launched_at DESC, name ASC
LIMIT ?`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = make([]types.LaunchRecord, 0, limit)
		for rows.Next() {
			var (
				rec        types.LaunchRecord
				launchedAt int64
			)
			if err := rows.Scan(&rec.Name, &rec.Path, &rec.LaunchCount, &launchedAt); err != nil {
				return err
			}
			rec.LastLaunchedAt = time.UnixMilli(launchedAt)
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteLaunchesBefore prunes applications not launched since t
func (r *SQLiteRepository) DeleteLaunchesBefore(ctx context.Context, t time.Time) (int64, error) {
	var deleted int64
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM app_launches WHERE last_launched_at < ?", t.UnixMilli())
		if err != nil {
			return r.fail("DeleteLaunchesBefore", err, nil)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		r.logger.Info("Pruned launch history", "deleted", deleted, "before", t.Format(time.RFC3339))
	}
	return deleted, nil
}
