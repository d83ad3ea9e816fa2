package daemon

import (
	"time"

	"github.com/rescale/mcnotify/internal/notify"
)

// DefaultHistorySize is how many notifications a History keeps.
const DefaultHistorySize = 20

// HistoryEntry is one notification that was dispatched.
type HistoryEntry struct {
	Time    time.Time
	Summary string
	Body    string
}

func newHistoryEntry(at time.Time, req notify.Request) HistoryEntry {
	return HistoryEntry{Time: at, Summary: req.Summary, Body: req.Body}
}

// History keeps the most recent notifications in a circular buffer.
// It is not safe for concurrent use; one goroutine owns it.
type History struct {
	entries  []HistoryEntry
	maxSize  int
	writeIdx int
	count    int
}

// NewHistory creates a history with the given capacity.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{
		entries: make([]HistoryEntry, maxSize),
		maxSize: maxSize,
	}
}

// Add stores an entry, overwriting the oldest one when full.
func (h *History) Add(entry HistoryEntry) {
	h.entries[h.writeIdx] = entry
	h.writeIdx = (h.writeIdx + 1) % h.maxSize
	if h.count < h.maxSize {
		h.count++
	}
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []HistoryEntry {
	if n <= 0 || h.count == 0 {
		return nil
	}
	if n > h.count {
		n = h.count
	}

	result := make([]HistoryEntry, n)
	for i := 0; i < n; i++ {
		idx := (h.writeIdx - 1 - i + h.maxSize) % h.maxSize
		result[i] = h.entries[idx]
	}
	return result
}
