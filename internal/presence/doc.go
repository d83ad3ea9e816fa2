// Package presence turns successive status snapshots into player-join events.
//
// The tracker is a pure function over (State, Snapshot). The caller owns the
// State value and threads it from one poll to the next; nothing in this
// package keeps state between calls.
package presence
