package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/activities/internal/domain/model"
)

// defaultHistorySize is used when NewHistory gets a non-positive size.
const defaultHistorySize = 500

// History is a bounded ring of recent roster changes.
type History struct {
	mu    sync.RWMutex
	ring  []model.Change
	next  int
	count int
}

// NewHistory creates a history that keeps the last size changes.
func NewHistory(size int) *History {
	if size < 1 {
		size = defaultHistorySize
	}
	return &History{ring: make([]model.Change, size)}
}

// Record stores a change, evicting the oldest one when full.
func (h *History) Record(_ context.Context, c model.Change) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring[h.next] = c
	h.next = (h.next + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
	return nil
}

// Recent returns up to n changes, newest first. Feed workers may record
// concurrently, so the result is ordered by change time rather than arrival.
func (h *History) Recent(_ context.Context, n int) []model.Change {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n = min(n, h.count)
	if n <= 0 {
		return []model.Change{}
	}
	out := make([]model.Change, n)
	for i := range n {
		idx := (h.next - 1 - i + len(h.ring)) % len(h.ring)
		out[i] = h.ring[idx]
	}
	slices.SortStableFunc(out, func(a, b model.Change) int {
		return b.At.Compare(a.At)
	})
	return out
}

// Len returns the number of changes held.
func (h *History) Len(_ context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Cap returns the maximum number of changes held.
func (h *History) Cap() int {
	return len(h.ring)
}

// Clear drops every recorded change.
func (h *History) Clear(_ context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.ring)
	h.next, h.count = 0, 0
}
