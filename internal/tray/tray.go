// Package tray shows the server's player count and player list in the system
// tray (fyne.io/systray). Clicking the count refreshes it with a direct status
// query; the tray never sees the poller's presence state.
package tray

import (
	"context"
	"sync"
	"time"

	"fyne.io/systray"

	"github.com/rescale/mcnotify/internal/daemon"
	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/models"
)

// Querier performs one status round-trip. *status.Client implements it.
type Querier interface {
	Query(ctx context.Context, target models.ServerTarget) (*models.Snapshot, error)
}

// Options configures the tray.
type Options struct {
	Target models.ServerTarget
	Client Querier
	Logger *logging.Logger

	// Initial seeds the menu and icon before the first click.
	Initial *models.Snapshot

	// Timeout bounds a click-triggered refresh. Zero means 10s.
	Timeout time.Duration

	// Dispatched, when set, feeds the "Recent joins" submenu. The tray keeps
	// its own history of what arrives on it.
	Dispatched <-chan daemon.HistoryEntry

	// OnQuit runs when the user picks Quit, before the tray exits.
	OnQuit func()
}

// trayApp holds the UI-side state.
type trayApp struct {
	opts   Options
	logger *logging.Logger
	ctx    context.Context

	// renderMu serializes whole menu rebuilds.
	renderMu sync.Mutex

	// done is closed when the current menu is replaced or the tray exits,
	// ending its click handler.
	mu       sync.Mutex
	done     chan struct{}
	exited   bool
	handlers sync.WaitGroup

	// menu is the last rendered menu, redrawn when recent changes.
	menu   Menu
	recent []string

	// history is only touched by watchHistory.
	history *daemon.History
}

func newTrayApp(ctx context.Context, opts Options) *trayApp {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &trayApp{
		opts:    opts,
		logger:  opts.Logger,
		ctx:     ctx,
		history: daemon.NewHistory(maxRecent),
	}
}

// Run shows the tray and blocks until the user quits or ctx is cancelled.
// It must be called from the main goroutine.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := newTrayApp(ctx, opts)
	systray.Run(a.onReady, a.onExit)
	return nil
}

func (a *trayApp) onReady() {
	systray.SetIcon(IconFor(a.opts.Initial))
	systray.SetTitle("mcnotify")
	a.render(BuildMenu(a.opts.Target, a.opts.Initial))

	go func() {
		<-a.ctx.Done()
		a.logger.Debug().Msg("Context cancelled, closing tray")
		systray.Quit()
	}()

	if a.opts.Dispatched != nil {
		go a.watchHistory()
	}

	a.logger.Info().Str("server", a.opts.Target.String()).Msg("Tray ready")
}

func (a *trayApp) onExit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exited = true
	if a.done != nil {
		close(a.done)
		a.done = nil
	}
}

// render replaces the whole menu and starts a click handler for it.
func (a *trayApp) render(m Menu) {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	a.mu.Lock()
	if a.exited {
		a.mu.Unlock()
		return
	}
	if a.done != nil {
		close(a.done)
	}
	done := make(chan struct{})
	a.done = done
	a.menu = m
	m.Recent = a.recent
	a.mu.Unlock()

	systray.ResetMenu()
	systray.SetTooltip(m.Tooltip)

	mSummary := systray.AddMenuItem(m.Summary, "Refresh")
	for _, name := range m.Players {
		item := systray.AddMenuItem(name, "")
		item.Disable()
	}
	if len(m.Recent) > 0 {
		systray.AddSeparator()
		mRecent := systray.AddMenuItem("Recent joins", "")
		for _, line := range m.Recent {
			item := mRecent.AddSubMenuItem(line, "")
			item.Disable()
		}
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit mcnotify")

	a.handlers.Add(1)
	go a.handleMenuClicks(done, mSummary, mQuit)
}

// handleMenuClicks processes menu item clicks for one rendered menu.
// Removing a menu item closes its ClickedCh, so a closed channel or a
// closed done means the menu was replaced and nothing was clicked.
func (a *trayApp) handleMenuClicks(done chan struct{}, mSummary, mQuit *systray.MenuItem) {
	defer a.handlers.Done()

	select {
	case _, ok := <-mSummary.ClickedCh:
		if !ok || isClosed(done) {
			return
		}
		menu, icon := a.refresh()
		if icon != nil {
			systray.SetIcon(icon)
		}
		a.render(menu)

	case _, ok := <-mQuit.ClickedCh:
		if !ok || isClosed(done) {
			return
		}
		a.logger.Info().Msg("Quit selected")
		if a.opts.OnQuit != nil {
			a.opts.OnQuit()
		}
		systray.Quit()

	case <-done:
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// watchHistory redraws the menu whenever a notification is dispatched.
func (a *trayApp) watchHistory() {
	for {
		select {
		case entry, ok := <-a.opts.Dispatched:
			if !ok {
				return
			}
			a.render(a.record(entry))
		case <-a.ctx.Done():
			return
		}
	}
}

// record adds entry to the history and returns the menu to redraw.
func (a *trayApp) record(entry daemon.HistoryEntry) Menu {
	a.history.Add(entry)
	lines := RecentLines(a.history.Recent(maxRecent))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = lines
	return a.menu
}

// refresh queries the server synchronously. A failure is shown in the menu
// and logged; it does not close the tray. The icon is nil when the current
// one should stay.
func (a *trayApp) refresh() (Menu, []byte) {
	ctx, cancel := context.WithTimeout(a.ctx, a.opts.Timeout)
	defer cancel()

	snap, err := a.opts.Client.Query(ctx, a.opts.Target)
	if err != nil {
		a.logger.Warn().Err(err).Str("server", a.opts.Target.String()).Msg("Tray refresh failed")
		return UnreachableMenu(a.opts.Target), nil
	}

	if _, err := DecodeIcon(snap.Favicon); err != nil && snap.Favicon != "" {
		a.logger.Debug().Err(err).Msg("Using default tray icon")
	}
	a.logger.Debug().Int("online", snap.OnlineCount).Msg("Tray refreshed")
	return BuildMenu(a.opts.Target, snap), IconFor(snap)
}
