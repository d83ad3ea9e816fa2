// Package notify decides which presence transitions become notifications and
// delivers them. Desktop notifications use github.com/gen2brain/beeep.
package notify

import (
	"context"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/gen2brain/beeep"
	"github.com/rescale/mcnotify/internal/logging"
)

// AppName is shown by notification daemons that display the sender.
const AppName = "mcnotify"

// maxBodyRunes bounds the body; the summary is always shown in full.
const maxBodyRunes = 240

// Notifier is the desktop Sink.
type Notifier struct {
	logger *logging.Logger
	beep   bool

	// send and alert are beeep.Notify and beeep.Beep outside tests.
	send  func(title, message, icon string) error
	alert func() error
}

// Config holds desktop notification settings.
type Config struct {
	// Beep plays the system bell with every notification.
	Beep bool
}

// DefaultConfig returns the default desktop notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Beep: false,
	}
}

// NewDesktopSink creates a desktop notifier.
func NewDesktopSink(cfg *Config, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	beeep.AppName = AppName
	return &Notifier{
		logger: logger,
		beep:   cfg.Beep,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
		alert: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// Dispatch shows req as a desktop notification.
func (n *Notifier) Dispatch(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.send(req.Summary, truncate(req.Body, maxBodyRunes), ""); err != nil {
		return &DispatchError{Sink: "desktop", Err: err}
	}

	if n.beep {
		// Beep failures are logged only.
		if err := n.alert(); err != nil {
			n.logger.Debug().Err(err).Msg("Failed to play notification beep")
		}
	}

	n.logger.Debug().Str("summary", req.Summary).Msg("Desktop notification sent")
	return nil
}

// Headless reports whether this process has no graphical session to show
// desktop notifications in.
func Headless() bool {
	return runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
