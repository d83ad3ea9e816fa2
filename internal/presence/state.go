package presence

import (
	"sort"
)

// State is the last-seen presence state.
//
// KnownIDs holds the normalized ids of the most recent disclosed sample and is
// replaced wholesale on every update that carries a sample. Tracking is false
// until a baseline has been observed; the first baseline after startup or
// after visibility was lost never produces join events.
type State struct {
	KnownIDs        map[string]struct{}
	LastOnlineCount int
	Tracking        bool
}

// NewState returns the initial, untracked state.
func NewState() State {
	return State{KnownIDs: make(map[string]struct{})}
}

// Knows reports whether the normalized id was in the last disclosed sample.
func (s State) Knows(normalizedID string) bool {
	_, ok := s.KnownIDs[normalizedID]
	return ok
}

// IDs returns the known ids sorted, for logging and tests.
func (s State) IDs() []string {
	ids := make([]string, 0, len(s.KnownIDs))
	for id := range s.KnownIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
