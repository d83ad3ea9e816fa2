package presence

import "fmt"

// EventKind tags a transition event.
type EventKind int

const (
	// PlayersJoined carries the names of newly visible players.
	PlayersJoined EventKind = iota + 1

	// CountIncreasedUnknownIdentity signals a join that could not be
	// attributed to a specific player.
	CountIncreasedUnknownIdentity

	// WatchedPlayerJoined carries the normalized id of a watched player.
	WatchedPlayerJoined
)

func (k EventKind) String() string {
	switch k {
	case PlayersJoined:
		return "players_joined"
	case CountIncreasedUnknownIdentity:
		return "unknown_join"
	case WatchedPlayerJoined:
		return "watched_player_joined"
	default:
		return fmt.Sprintf("event_kind(%d)", int(k))
	}
}

// Event is a derived fact about the difference between two snapshots.
type Event struct {
	Kind EventKind

	// Names is set for PlayersJoined, in snapshot order.
	Names []string

	// ID is the normalized id for WatchedPlayerJoined.
	ID string
}
