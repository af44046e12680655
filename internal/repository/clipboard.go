package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/types"
)

// SaveClipboardHistory replaces the stored history in a single transaction
func (r *SQLiteRepository) SaveClipboardHistory(ctx context.Context, items []string) error {
	start := time.Now()
	createdAt := r.now().UnixMilli()

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM clipboard_items"); err != nil {
			return r.fail("SaveClipboardHistory.Clear", err, nil)
		}
		if len(items) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO clipboard_items (position, content, created_at) VALUES (?, ?, ?)")
		if err != nil {
			return r.fail("SaveClipboardHistory.Prepare", err, nil)
		}
		defer stmt.Close()

		for i, content := range items {
			if _, err := stmt.ExecContext(ctx, i, content, createdAt); err != nil {
				return r.fail("SaveClipboardHistory.Insert", err, map[string]string{"position": strconv.Itoa(i)})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogOperation(r.logger, "SaveClipboardHistory", time.Since(start), map[string]interface{}{"items": len(items)})
	return nil
}

// LoadClipboardHistory returns the stored history, oldest first
func (r *SQLiteRepository) LoadClipboardHistory(ctx context.Context) ([]types.ClipboardEntry, error) {
	var entries []types.ClipboardEntry
	err := r.query(ctx, "LoadClipboardHistory", func() error {
		rows, err := r.db.QueryContext(ctx, "SELECT position, content, created_at FROM clipboard_items ORDER BY position")
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = []types.ClipboardEntry{}
		for rows.Next() {
			var (
				entry     types.ClipboardEntry
				createdAt int64
			)
			if err := rows.Scan(&entry.Position, &entry.Content, &createdAt); err != nil {
				return err
			}
			entry.CreatedAt = time.UnixMilli(createdAt)
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
