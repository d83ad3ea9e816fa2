package presence

import (
	"github.com/rescale/mcnotify/internal/models"
)

// Tracker computes the delta between a State and a new Snapshot.
//
// The zero Tracker diffs the whole sample and applies the unknown-join count
// heuristic. Setting Watch switches to the watch-list variant: the sample is
// filtered to watched players first and each newly visible id yields one
// WatchedPlayerJoined event.
type Tracker struct {
	Watch *WatchList
}

// Update is Tracker{}.Update.
func Update(state State, snap *models.Snapshot) (State, []Event) {
	return Tracker{}.Update(state, snap)
}

// Update returns the next state and the events derived from the pair
// (state, snap). It never mutates state.
func (t Tracker) Update(state State, snap *models.Snapshot) (State, []Event) {
	if !snap.HasSample() {
		// Individual identities are not visible, so nothing can be inferred.
		// A server reporting nobody online is still fully visible though, and
		// the next disclosed sample is diffed against that empty baseline.
		next := NewState()
		next.Tracking = snap != nil && snap.OnlineCount == 0
		return next, nil
	}

	sample := snap.Sample
	if t.Watch != nil {
		sample = t.Watch.Filter(sample)
	}

	next := State{
		KnownIDs:        make(map[string]struct{}, len(sample)),
		LastOnlineCount: snap.OnlineCount,
		Tracking:        true,
	}
	for _, p := range sample {
		next.KnownIDs[p.NormalizedID()] = struct{}{}
	}

	if !state.Tracking {
		return next, nil
	}

	joined := make(map[string]struct{})
	for id := range next.KnownIDs {
		if !state.Knows(id) {
			joined[id] = struct{}{}
		}
	}

	if t.Watch != nil {
		return next, watchedEvents(sample, joined)
	}

	if len(joined) > 0 {
		var names []string
		for _, p := range sample {
			if _, ok := joined[p.NormalizedID()]; ok {
				names = append(names, p.Name)
			}
		}
		return next, []Event{{Kind: PlayersJoined, Names: names}}
	}

	// NOTE: this fires when the previous count is greater than the current
	// one. Kept as observed; see TestUpdate_UnknownJoinComparisonDirection.
	if state.LastOnlineCount > snap.OnlineCount {
		return next, []Event{{Kind: CountIncreasedUnknownIdentity}}
	}

	return next, nil
}

// watchedEvents emits one event per joined id in snapshot order.
func watchedEvents(sample []models.PlayerRef, joined map[string]struct{}) []Event {
	if len(joined) == 0 {
		return nil
	}
	events := make([]Event, 0, len(joined))
	seen := make(map[string]struct{}, len(joined))
	for _, p := range sample {
		id := p.NormalizedID()
		if _, ok := joined[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		events = append(events, Event{Kind: WatchedPlayerJoined, ID: id})
	}
	return events
}
