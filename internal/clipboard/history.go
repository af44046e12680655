// Package clipboard keeps a short history of copied text.
package clipboard

import (
	"strings"
	"sync"
)

// DefaultCapacity is how many items History keeps unless told otherwise
const DefaultCapacity = 10

// History is a bounded list of clipboard texts, oldest first. It is safe
// for concurrent use: the watcher writes while UI calls read.
type History struct {
	mu       sync.RWMutex
	items    []string
	capacity int
}

// NewHistory creates a History; a capacity below 1 uses DefaultCapacity
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{
		items:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Add appends text unless it is blank or equal to the newest item. The
// oldest item is dropped once the history is full. Reports whether text
// was added.
func (h *History) Add(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.items); n > 0 && h.items[n-1] == text {
		return false
	}
	if len(h.items) >= h.capacity {
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, text)
	return true
}

// Items returns a copy of the history, oldest first
func (h *History) Items() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, len(h.items))
	copy(out, h.items)
	return out
}

// Latest returns the newest item
func (h *History) Latest() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.items) == 0 {
		return "", false
	}
	return h.items[len(h.items)-1], true
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

func (h *History) Capacity() int {
	return h.capacity
}

// Clear drops every item
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = h.items[:0]
}

// Restore replaces the history with items, applying the same rules as Add
func (h *History) Restore(items []string) {
	h.Clear()
	for _, item := range items {
		h.Add(item)
	}
}
