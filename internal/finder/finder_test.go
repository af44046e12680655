package finder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/testutils"
)

// touch creates empty files under root, making parent directories as needed
func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

// assertInvariants checks bound, ordering, threshold and uniqueness
func assertInvariants(t *testing.T, query string, results []string) {
	t.Helper()

	assert.LessOrEqual(t, len(results), MaxResults)

	seen := make(map[string]bool, len(results))
	prev := 2.0
	for _, p := range results {
		assert.True(t, filepath.IsAbs(p), "path %q is not absolute", p)
		assert.False(t, seen[p], "duplicate path %q", p)
		seen[p] = true

		score := Similarity(query, filepath.Base(p))
		assert.Greater(t, score, Threshold, "%q is below the threshold", p)
		assert.LessOrEqual(t, int(score*scoreScale), int(prev*scoreScale), "%q is out of order", p)
		prev = score
	}
}

func TestSearch_ExactMatchComesFirst(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"report_final.txt",
		"reports/report_draft.txt",
		"reports/old/report_final_v2.txt",
		"notes/todo.md",
	)

	results, err := New(WithRoots(root)).Search(context.Background(), "report_final")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, filepath.Join(root, "report_final.txt"), results[0])
	assertInvariants(t, "report_final", results)
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "alpha.txt", "beta/gamma.go")

	results, err := New(WithRoots(root)).Search(context.Background(), "zzzzqqqq")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_KeepsTheEightBest(t *testing.T) {
	root := t.TempDir()
	var all []string
	for i := 1; i <= 20; i++ {
		name := fmt.Sprintf("doc%d.txt", i)
		all = append(all, name)
		touch(t, root, name)
	}

	results, err := New(WithRoots(root)).Search(context.Background(), "doc")
	require.NoError(t, err)
	require.Len(t, results, MaxResults)
	assertInvariants(t, "doc", results)

	returned := make(map[string]bool)
	worstReturned := scoreScale
	for _, p := range results {
		returned[filepath.Base(p)] = true
		worstReturned = min(worstReturned, int(Similarity("doc", filepath.Base(p))*scoreScale))
	}
	for _, name := range all {
		if returned[name] {
			continue
		}
		excluded := int(Similarity("doc", name) * scoreScale)
		assert.LessOrEqual(t, excluded, worstReturned, "%s scored higher than a returned file", name)
	}
}

func TestSearch_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "invoice"), 0o755))
	touch(t, root, "other/invoice.pdf")

	results, err := New(WithRoots(root)).Search(context.Background(), "invoice")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "other", "invoice.pdf")}, results)
}

func TestSearch_IsCaseSensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "README")

	lower, err := New(WithRoots(root)).Search(context.Background(), "readme")
	require.NoError(t, err)
	assert.Empty(t, lower)

	upper, err := New(WithRoots(root)).Search(context.Background(), "README")
	require.NoError(t, err)
	assert.Len(t, upper, 1)
}

func TestSearch_SkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits do not restrict directory reads on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	touch(t, root,
		"locked/budget_secret.xlsx",
		"open/budget.xlsx",
		"open/deeper/budget_2024.xlsx",
	)

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	results, stats, err := New(WithRoots(root)).SearchWithStats(context.Background(), "budget")
	require.NoError(t, err)

	assert.Contains(t, results, filepath.Join(root, "open", "budget.xlsx"))
	assert.Contains(t, results, filepath.Join(root, "open", "deeper", "budget_2024.xlsx"))
	assert.NotContains(t, results, filepath.Join(locked, "budget_secret.xlsx"))
	assert.Equal(t, 1, stats.Skipped)
	assertInvariants(t, "budget", results)
}

func TestSearch_SkipsDirectoryRemovedDuringWalk(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"vanishing/budget_gone.xlsx",
		"open/budget.xlsx",
		"open/deeper/budget_2024.xlsx",
	)
	vanishing := filepath.Join(root, "vanishing")

	f := New(WithRoots(root))
	f.visit = func(path string) {
		if path == vanishing {
			require.NoError(t, os.RemoveAll(vanishing))
		}
	}

	results, stats, err := f.SearchWithStats(context.Background(), "budget")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "open", "budget.xlsx"),
		filepath.Join(root, "open", "deeper", "budget_2024.xlsx"),
	}, results)
	assertInvariants(t, "budget", results)
}

func TestSearch_OverlappingRootsAreDeduplicated(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "sub/invoice_march.pdf", "invoice_april.pdf")

	results, err := New(WithRoots(root, filepath.Join(root, "sub"), root+string(filepath.Separator))).
		Search(context.Background(), "invoice")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "sub", "invoice_march.pdf"),
		filepath.Join(root, "invoice_april.pdf"),
	}, results)
	assertInvariants(t, "invoice", results)
}

func TestSearch_SymlinkIntoAnotherRoot(t *testing.T) {
	base := t.TempDir()
	rootA := filepath.Join(base, "a")
	rootB := filepath.Join(base, "b")
	touch(t, rootB, "shared/contract.docx")
	require.NoError(t, os.MkdirAll(rootA, 0o755))

	if err := os.Symlink(filepath.Join(rootB, "shared"), filepath.Join(rootA, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	results, err := New(WithRoots(rootA, rootB)).Search(context.Background(), "contract")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(rootB, "shared", "contract.docx")}, results)
}

func TestSearch_SymlinkToFileIsIncluded(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data/target.bin")

	link := filepath.Join(root, "shortcut_notes.txt")
	if err := os.Symlink(filepath.Join(root, "data", "target.bin"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	dangling := filepath.Join(root, "shortcut_notes_old.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), dangling))

	results, err := New(WithRoots(root)).Search(context.Background(), "shortcut_notes")
	require.NoError(t, err)
	assert.Equal(t, []string{link}, results)
}

func TestSearch_MissingRootIsSkipped(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "photo.jpg")

	results, err := New(WithRoots(filepath.Join(root, "nope"), root)).Search(context.Background(), "photo")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "photo.jpg")}, results)
}

func TestSearchWithStats_TruncatesAtEntryCap(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	for i := 0; i < 20; i++ {
		touch(t, rootA, fmt.Sprintf("song%02d.mp3", i))
	}
	touch(t, rootB, "song.mp3")

	logger := &testutils.RecordingLogger{}
	f := New(WithRoots(rootA, rootB), WithMaxEntries(5), WithLogger(logger))

	results, stats, err := f.SearchWithStats(context.Background(), "song")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Clean(rootA)}, stats.Truncated)
	// five entries from the capped root, then the second root and its file
	assert.Equal(t, 7, stats.Visited)
	assert.Contains(t, results, filepath.Join(rootB, "song.mp3"))
	assert.LessOrEqual(t, stats.Admitted, 5)
	assertInvariants(t, "song", results)

	warns := logger.Calls("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, filepath.Clean(rootA), testutils.FieldsToMap(t, warns[0].Fields)["root"])
}

func TestSearch_UnderCapIsNotTruncated(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt", "b.txt")

	_, stats, err := New(WithRoots(root), WithMaxEntries(3)).SearchWithStats(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, stats.Truncated)
	assert.Equal(t, 3, stats.Visited)
}

func TestSearch_CancelledContext(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "resume.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(WithRoots(root)).Search(ctx, "resume")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestSearch_UnsupportedPlatform(t *testing.T) {
	results, err := New(WithPlatform("plan9")).Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, apperrors.IsUnsupported(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "unsupported platform: plan9", appErr.Message())
}

func TestRootsFor(t *testing.T) {
	for _, goos := range []string{"darwin", "linux"} {
		roots, err := RootsFor(goos)
		require.NoError(t, err)
		assert.Equal(t, []string{"/"}, roots)
	}

	roots, err := RootsFor("windows")
	require.NoError(t, err)
	require.NotEmpty(t, roots)
	for _, r := range roots {
		assert.True(t, strings.HasSuffix(r, `:\`), "unexpected drive root %q", r)
	}
	if runtime.GOOS != "windows" {
		assert.Equal(t, []string{`C:\`, `D:\`, `E:\`}, roots)
	}

	_, err = RootsFor("freebsd")
	assert.True(t, apperrors.IsUnsupported(err))
}

func TestFinder_ConfiguredRootsOverridePlatform(t *testing.T) {
	roots, err := New(WithPlatform("plan9"), WithRoots("/srv/data/")).Roots()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Clean("/srv/data/")}, roots)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.Equal(t, 0.0, Similarity("x", ""))
	assert.InDelta(t, 1.0, Similarity("notes.txt", "notes.txt"), 1e-9)
	assert.Greater(t, Similarity("report_final", "report_final.txt"), 0.9)
	assert.Greater(t, Similarity("doc", "doc1.txt"), Similarity("doc", "doc10.txt"))
	assert.LessOrEqual(t, Similarity("abc", "xyz"), Threshold)
}
