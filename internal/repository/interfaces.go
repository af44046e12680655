package repository

import (
	"context"
	"time"

	"qlaunch/internal/types"
)

// LaunchRepository persists how often each application was started
type LaunchRepository interface {
	// RecordLaunch increments the launch count of name and stamps it with now
	RecordLaunch(ctx context.Context, name, path string) error
	GetLaunchCounts(ctx context.Context) (map[string]int64, error)
	// GetRecentLaunches returns at most limit records, most recent first
	GetRecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error)
	// DeleteLaunchesBefore removes records last launched before t and
	// reports how many were removed
	DeleteLaunchesBefore(ctx context.Context, t time.Time) (int64, error)
}

// ClipboardRepository persists the clipboard history between sessions
type ClipboardRepository interface {
	// SaveClipboardHistory replaces the stored history with items, oldest first
	SaveClipboardHistory(ctx context.Context, items []string) error
	// LoadClipboardHistory returns the stored history ordered by position
	LoadClipboardHistory(ctx context.Context) ([]types.ClipboardEntry, error)
}
