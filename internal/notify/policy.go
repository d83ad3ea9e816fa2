package notify

import (
	"fmt"
	"strings"

	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/presence"
)

// Request is one notification to render.
type Request struct {
	// Summary is the notification title, e.g. "Steve joined example.com:25565".
	Summary string

	// Body carries the current counts. Sinks may ignore it.
	Body string

	Kind presence.EventKind
}

// Policy maps transition events to notification requests.
type Policy struct {
	Mode   Mode
	Target models.ServerTarget
}

// Decide returns one request per event accepted by the mode, in event order.
// snap is the snapshot the events were derived from; it resolves display
// names for watched players and fills the body.
func (p Policy) Decide(events []presence.Event, snap *models.Snapshot) []Request {
	if len(events) == 0 {
		return nil
	}

	body := ""
	if snap != nil {
		body = fmt.Sprintf("%d / %d online on %s", snap.OnlineCount, snap.MaxCount, p.Target)
	}

	var reqs []Request
	for _, ev := range events {
		if !p.accepts(ev.Kind) {
			continue
		}
		reqs = append(reqs, Request{
			Summary: p.summary(ev, snap),
			Body:    body,
			Kind:    ev.Kind,
		})
	}
	return reqs
}

func (p Policy) accepts(kind presence.EventKind) bool {
	switch p.Mode {
	case ModeBroadcast:
		return kind == presence.PlayersJoined
	case ModeWatchList:
		return kind == presence.WatchedPlayerJoined
	default:
		return kind == presence.PlayersJoined || kind == presence.CountIncreasedUnknownIdentity
	}
}

func (p Policy) summary(ev presence.Event, snap *models.Snapshot) string {
	switch ev.Kind {
	case presence.PlayersJoined:
		return fmt.Sprintf("%s joined %s", strings.Join(ev.Names, ", "), p.Target)
	case presence.CountIncreasedUnknownIdentity:
		return fmt.Sprintf("An unknown player joined %s", p.Target)
	case presence.WatchedPlayerJoined:
		return fmt.Sprintf("%s joined %s", displayName(snap, ev.ID), p.Target)
	default:
		return fmt.Sprintf("%s on %s", ev.Kind, p.Target)
	}
}

// displayName resolves a normalized id to the sample's name, falling back to
// the id itself.
func displayName(snap *models.Snapshot, id string) string {
	if player, ok := snap.FindPlayer(id); ok && player.Name != "" {
		return player.Name
	}
	return id
}
