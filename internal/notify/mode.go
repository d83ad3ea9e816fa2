package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rescale/mcnotify/internal/presence"
)

// ErrInvalidMode is returned by ParseMode for an unrecognised mode name.
var ErrInvalidMode = errors.New("invalid notification mode")

// Mode selects which presence transitions become notifications.
type Mode int

const (
	// ModeAuto picks ModeWatchList when a watch list is configured and
	// ModeUnknownJoin otherwise.
	ModeAuto Mode = iota

	// ModeBroadcast notifies for every identified join.
	ModeBroadcast

	// ModeUnknownJoin notifies for identified joins and for joins inferred
	// from the player count.
	ModeUnknownJoin

	// ModeWatchList notifies only for players on the watch list.
	ModeWatchList
)

var modeNames = map[Mode]string{
	ModeAuto:        "auto",
	ModeBroadcast:   "broadcast",
	ModeUnknownJoin: "unknown",
	ModeWatchList:   "watchlist",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a mode name. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "broadcast", "all":
		return ModeBroadcast, nil
	case "unknown", "unknown-join", "unknown_join":
		return ModeUnknownJoin, nil
	case "watchlist", "watch-list", "watch":
		return ModeWatchList, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q (expected auto, broadcast, unknown or watchlist)", ErrInvalidMode, s)
	}
}

// ResolveMode replaces ModeAuto with the concrete mode for the given watch list.
func ResolveMode(m Mode, watch presence.WatchList) Mode {
	if m != ModeAuto {
		return m
	}
	if watch.Empty() {
		return ModeUnknownJoin
	}
	return ModeWatchList
}

// Tracker returns the presence tracker variant that feeds this mode.
func (m Mode) Tracker(watch presence.WatchList) presence.Tracker {
	if ResolveMode(m, watch) != ModeWatchList {
		return presence.Tracker{}
	}
	return presence.Tracker{Watch: &watch}
}
