package clipboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
)

// DefaultPollInterval is how often the watcher reads the clipboard
const DefaultPollInterval = 500 * time.Millisecond

// ErrEmpty is returned when the clipboard holds no text
var ErrEmpty = errors.New("Clipboard empty or unsupported format")

// Reader reads the system clipboard as text
type Reader interface {
	ReadAll() (string, error)
}

// SystemReader reads the OS clipboard
type SystemReader struct{}

func (SystemReader) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", apperrors.HandleUnsupported("ReadClipboard", "no clipboard utility available")
	}
	return clipboard.ReadAll()
}

// Watcher polls a Reader and records new text into a History
type Watcher struct {
	history  *History
	reader   Reader
	interval time.Duration
	logger   logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	last   string
}

// NewWatcher creates a Watcher. A nil reader uses SystemReader and a
// non-positive interval uses DefaultPollInterval.
func NewWatcher(history *History, reader Reader, interval time.Duration, logger logging.Logger) *Watcher {
	if reader == nil {
		reader = SystemReader{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Watcher{
		history:  history,
		reader:   reader,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling until ctx is done or Stop is called. Starting a
// running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}
	if latest, ok := w.history.Latest(); ok {
		w.last = latest
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx, w.done)

	w.logger.Info("Clipboard watcher started", "interval", w.interval)
}

// Stop ends polling and waits for the poll loop to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.logger.Info("Clipboard watcher stopped")
}

func (w *Watcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll records the clipboard when it changed since the last read. Read
// errors are left for the next tick.
func (w *Watcher) poll() {
	text, err := w.reader.ReadAll()
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}

	w.mu.Lock()
	changed := text != w.last
	w.last = text
	w.mu.Unlock()

	if changed && w.history.Add(text) {
		w.logger.Debug("Clipboard item recorded", "length", len(text))
	}
}

// RecordNow reads the clipboard once and adds it to the history. Blank or
// unreadable content returns ErrEmpty.
func (w *Watcher) RecordNow() (string, error) {
	text, err := w.reader.ReadAll()
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			w.logger.Debug("Clipboard read failed", "error", err)
		}
		return "", apperrors.New("RecordClipboard", ErrEmpty, apperrors.ErrCodeNotFound)
	}

	w.mu.Lock()
	w.last = text
	w.mu.Unlock()

	w.history.Add(text)
	return text, nil
}
