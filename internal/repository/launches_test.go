package repository

import (
	"context"
	"testing"
	"time"

	apperrors "qlaunch/internal/infrastructure/errors"
)

func TestSQLiteRepository_RecordLaunch(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(repo, base, base.Add(time.Minute), base.Add(2*time.Minute))

	if err := repo.RecordLaunch(ctx, "Firefox", "/usr/share/applications/firefox.desktop"); err != nil {
		t.Fatalf("RecordLaunch failed: %v", err)
	}
	if err := repo.RecordLaunch(ctx, "Terminal", ""); err != nil {
		t.Fatalf("RecordLaunch failed: %v", err)
	}
	// an empty path keeps the stored one
	if err := repo.RecordLaunch(ctx, "Firefox", ""); err != nil {
		t.Fatalf("RecordLaunch failed: %v", err)
	}

	counts, err := repo.GetLaunchCounts(ctx)
	if err != nil {
		t.Fatalf("GetLaunchCounts failed: %v", err)
	}
	if counts["Firefox"] != 2 || counts["Terminal"] != 1 || len(counts) != 2 {
		t.Errorf("Unexpected counts: %v", counts)
	}

	recent, err := repo.GetRecentLaunches(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentLaunches failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	first := recent[0]
	if first.Name != "Firefox" || first.LaunchCount != 2 {
		t.Errorf("Expected Firefox launched twice first, got %+v", first)
	}
	if first.Path != "/usr/share/applications/firefox.desktop" {
		t.Errorf("Expected path to be kept, got %q", first.Path)
	}
	if !first.LastLaunchedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Expected last launch %v, got %v", base.Add(2*time.Minute), first.LastLaunchedAt)
	}
	if recent[1].Name != "Terminal" {
		t.Errorf("Expected Terminal second, got %+v", recent[1])
	}
}

func TestSQLiteRepository_RecordLaunch_Validation(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	for _, name := range []string{"", "   "} {
		err := repo.RecordLaunch(context.Background(), name, "")
		if !apperrors.IsValidation(err) {
			t.Errorf("RecordLaunch(%q): expected validation error, got %v", name, err)
		}
	}
}

func TestSQLiteRepository_GetLaunchCounts_Empty(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	counts, err := repo.GetLaunchCounts(context.Background())
	if err != nil {
		t.Fatalf("GetLaunchCounts failed: %v", err)
	}
	if counts == nil || len(counts) != 0 {
		t.Errorf("Expected empty non-nil map, got %v", counts)
	}
}

func TestSQLiteRepository_GetRecentLaunches_Limit(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(repo, base, base, base.Add(time.Hour))
	for _, name := range []string{"Zed", "Atom", "Vim"} {
		if err := repo.RecordLaunch(ctx, name, ""); err != nil {
			t.Fatalf("RecordLaunch(%s) failed: %v", name, err)
		}
	}

	recent, err := repo.GetRecentLaunches(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentLaunches failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Name != "Vim" || recent[1].Name != "Atom" {
		t.Errorf("Expected [Vim Atom], got %+v", recent)
	}

	if _, err := repo.GetRecentLaunches(ctx, 0); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for zero limit, got %v", err)
	}
}

func TestSQLiteRepository_DeleteLaunchesBefore(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fixedClock(repo, old, old, recent)
	for _, name := range []string{"Old1", "Old2", "Fresh"} {
		if err := repo.RecordLaunch(ctx, name, ""); err != nil {
			t.Fatalf("RecordLaunch(%s) failed: %v", name, err)
		}
	}

	deleted, err := repo.DeleteLaunchesBefore(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteLaunchesBefore failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", deleted)
	}

	counts, err := repo.GetLaunchCounts(ctx)
	if err != nil {
		t.Fatalf("GetLaunchCounts failed: %v", err)
	}
	if len(counts) != 1 || counts["Fresh"] != 1 {
		t.Errorf("Expected only Fresh to remain, got %v", counts)
	}

	deleted, err = repo.DeleteLaunchesBefore(ctx, old)
	if err != nil || deleted != 0 {
		t.Errorf("Expected nothing to delete, got (%d, %v)", deleted, err)
	}
}
