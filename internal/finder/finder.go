// Package finder searches the filesystem for files whose names resemble a
// query and keeps only the best few matches.
package finder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/karrick/godirwalk"

	"qlaunch/internal/infrastructure/logging"
)

const (
	// MaxResults is the number of paths a search returns at most
	MaxResults = 8
	// Threshold is the similarity a name must exceed to be admitted
	Threshold = 0.6
	// MaxEntriesPerRoot caps how many entries one root's walk may visit
	MaxEntriesPerRoot = 100_000

	scoreScale = 10000
)

var errCapReached = errors.New("per-root entry cap reached")

// Stats describes one search
type Stats struct {
	Visited   int      // entries seen across all roots
	Admitted  int      // entries that passed the threshold and dedup check
	Skipped   int      // entries whose read failed and were left out
	Truncated []string // roots whose walk stopped at the entry cap
}

// Finder walks a fixed set of roots. A Finder holds no state between calls
// and is safe for concurrent use.
type Finder struct {
	roots      []string
	goos       string
	maxEntries int
	limit      int
	logger     logging.Logger

	// visit, when set, sees every entry before it is scored
	visit func(path string)
}

// Option configures a Finder
type Option func(*Finder)

// WithRoots searches roots instead of the platform defaults
func WithRoots(roots ...string) Option {
	return func(f *Finder) {
		f.roots = f.roots[:0]
		for _, r := range roots {
			f.roots = append(f.roots, filepath.Clean(r))
		}
	}
}

// WithPlatform picks default roots as if running on goos
func WithPlatform(goos string) Option {
	return func(f *Finder) { f.goos = goos }
}

// WithMaxEntries overrides the per-root entry cap
func WithMaxEntries(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxEntries = n
		}
	}
}

// WithLogger sets the logger used for truncation warnings
func WithLogger(logger logging.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Finder with the platform roots and default limits
func New(opts ...Option) *Finder {
	f := &Finder{
		goos:       runtime.GOOS,
		maxEntries: MaxEntriesPerRoot,
		limit:      MaxResults,
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Roots returns the roots a search would walk
func (f *Finder) Roots() ([]string, error) {
	if len(f.roots) > 0 {
		return append([]string(nil), f.roots...), nil
	}
	return RootsFor(f.goos)
}

// Search returns up to MaxResults absolute paths, best match first
func (f *Finder) Search(ctx context.Context, query string) ([]string, error) {
	paths, _, err := f.SearchWithStats(ctx, query)
	return paths, err
}

// SearchWithStats is Search plus scan statistics. When ctx is cancelled the
// matches gathered so far are returned together with ctx.Err().
func (f *Finder) SearchWithStats(ctx context.Context, query string) ([]string, Stats, error) {
	var stats Stats

	roots, err := f.Roots()
	if err != nil {
		return nil, stats, err
	}

	start := time.Now()
	s := &scan{
		ctx:   ctx,
		query: query,
		best:  newTopK(f.limit),
		seen:  make(map[string]struct{}),
		max:   f.maxEntries,
		stats: &stats,
		visit: f.visit,
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return s.best.drain(), stats, err
		}

		truncated, err := s.walk(root)
		if truncated {
			stats.Truncated = append(stats.Truncated, root)
			f.logger.Warn("File search truncated at entry cap",
				"root", root,
				"max_entries", f.maxEntries,
			)
		}
		if err != nil {
			return s.best.drain(), stats, err
		}
	}

	results := s.best.drain()
	f.logger.Debug("File search completed",
		"query", query,
		"roots", len(roots),
		"visited", stats.Visited,
		"admitted", stats.Admitted,
		"skipped", stats.Skipped,
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results, stats, nil
}

// scan is the state of one search call
type scan struct {
	ctx   context.Context
	query string
	best  *topK
	seen  map[string]struct{}
	max   int
	stats *Stats
	visit func(path string)
}

// walk visits one root. It reports whether the entry cap was hit and returns
// an error only when the context ends the walk.
func (s *scan) walk(root string) (bool, error) {
	visited := 0

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted:            true,
		FollowSymbolicLinks: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if visited >= s.max {
				return errCapReached
			}
			if visited%1024 == 0 {
				if err := s.ctx.Err(); err != nil {
					return err
				}
			}
			visited++
			s.stats.Visited++
			if s.visit != nil {
				s.visit(osPathname)
			}
			s.consider(osPathname, de)
			return nil
		},
		ErrorCallback: func(_ string, err error) godirwalk.ErrorAction {
			if errors.Is(err, errCapReached) || s.ctx.Err() != nil {
				return godirwalk.Halt
			}
			s.stats.Skipped++
			return godirwalk.SkipNode
		},
	})

	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, errCapReached):
		return true, nil
	case s.ctx.Err() != nil:
		return false, s.ctx.Err()
	default:
		// root missing or unreadable
		return false, nil
	}
}

// consider scores a visited entry and offers it to the result set
func (s *scan) consider(path string, de *godirwalk.Dirent) {
	if !isRegularFile(path, de) {
		return
	}

	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return
	}

	score := Similarity(s.query, name)
	if score <= Threshold {
		return
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if _, dup := s.seen[path]; dup {
		return
	}
	s.seen[path] = struct{}{}
	s.stats.Admitted++

	s.best.offer(candidate{score: int(score * scoreScale), path: path})
}

// isRegularFile reports whether the entry is a file. Symlinks count when
// they resolve to a regular file; links to directories and dangling links do not.
func isRegularFile(path string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
