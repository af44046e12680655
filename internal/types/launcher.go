package types

import "time"

// AppInfo is an installed application the launcher can start
type AppInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	LaunchCount int64  `json:"launchCount"`
}

// Snippet is a named block of text loaded from the snippets directory
type Snippet struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// LaunchRecord is the persisted launch history of one application
type LaunchRecord struct {
	Name           string    `json:"name"`
	Path           string    `json:"path"`
	LaunchCount    int64     `json:"launchCount"`
	LastLaunchedAt time.Time `json:"lastLaunchedAt"`
}

// ClipboardEntry is one persisted clipboard history item
type ClipboardEntry struct {
	Position  int       `json:"position"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
