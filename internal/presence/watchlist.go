package presence

import (
	"strings"

	"github.com/rescale/mcnotify/internal/models"
)

// WatchList is the configured set of players of interest. Each entry is
// either a player id (any separator form) or a display name.
type WatchList struct {
	ids     map[string]struct{}
	names   map[string]struct{}
	entries []string
}

// NewWatchList builds a WatchList, ignoring blank entries.
func NewWatchList(entries []string) WatchList {
	w := WatchList{
		ids:   make(map[string]struct{}),
		names: make(map[string]struct{}),
	}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		w.entries = append(w.entries, e)
		w.names[e] = struct{}{}
		w.ids[models.NormalizeID(e)] = struct{}{}
	}
	return w
}

// Empty reports whether the list has no entries (no filtering).
func (w WatchList) Empty() bool {
	return len(w.entries) == 0
}

// Entries returns the configured entries in their original order.
func (w WatchList) Entries() []string {
	out := make([]string, len(w.entries))
	copy(out, w.entries)
	return out
}

// Matches reports whether a player's id or name is on the list. An empty list
// matches everyone.
func (w WatchList) Matches(p models.PlayerRef) bool {
	if w.Empty() {
		return true
	}
	if _, ok := w.names[p.Name]; ok {
		return true
	}
	_, ok := w.ids[p.NormalizedID()]
	return ok
}

// Filter returns the sample entries that match, keeping their order.
func (w WatchList) Filter(sample []models.PlayerRef) []models.PlayerRef {
	if w.Empty() {
		return sample
	}
	filtered := make([]models.PlayerRef, 0, len(sample))
	for _, p := range sample {
		if w.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
