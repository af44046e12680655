//go:build !windows

package finder

func logicalDrives() []string { return nil }
