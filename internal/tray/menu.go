package tray

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rescale/mcnotify/internal/daemon"
	"github.com/rescale/mcnotify/internal/models"
)

// maxRecent is how many notifications the "Recent joins" submenu lists.
const maxRecent = 5

// Menu is the data behind the tray menu, independent of any toolkit.
type Menu struct {
	// Summary is the clickable refresh entry, "{online} / {max}".
	Summary string

	// Players has one disabled entry per name in the sample.
	Players []string

	// Recent lists the latest notifications, newest first.
	Recent []string

	Tooltip string
}

// BuildMenu renders a snapshot into menu data.
func BuildMenu(target models.ServerTarget, snap *models.Snapshot) Menu {
	if snap == nil {
		return UnreachableMenu(target)
	}

	tooltip := target.String()
	if motd := strings.TrimSpace(snap.Description); motd != "" {
		tooltip += "\n" + truncate(motd, 100)
	}

	return Menu{
		Summary: fmt.Sprintf("%d / %d", snap.OnlineCount, snap.MaxCount),
		Players: snap.PlayerNames(),
		Tooltip: tooltip,
	}
}

// UnreachableMenu is shown when a refresh fails.
func UnreachableMenu(target models.ServerTarget) Menu {
	return Menu{
		Summary: fmt.Sprintf("Unreachable: %s", target),
		Tooltip: fmt.Sprintf("%s (unreachable)", target),
	}
}

// RecentLines formats history entries as "15:04 Steve joined host:port".
func RecentLines(entries []daemon.HistoryEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s", e.Time.Format("15:04"), truncate(e.Summary, 60)))
	}
	return lines
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
