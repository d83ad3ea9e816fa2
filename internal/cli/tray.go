package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rescale/mcnotify/internal/notify"
	"github.com/rescale/mcnotify/internal/tray"
)

// runTray queries the server once, then shows the tray while the poller runs
// in its own goroutine. The poller owns the presence state; the tray only
// issues its own queries and hears about notifications over a channel.
func runTray(ctx context.Context) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}
	logger := GetLogger()

	if notify.Headless() {
		return errors.New("no graphical session for the tray icon; use 'mcnotify watch' instead")
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	initial, err := a.client.Query(ctx, a.target)
	if err != nil {
		return fmt.Errorf("initial status query failed: %w", err)
	}
	logger.Info().
		Str("server", a.target.String()).
		Int("online", initial.OnlineCount).
		Int("max", initial.MaxCount).
		Str("mode", a.scheduler.Mode().String()).
		Msg("Server reachable")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pollErr := make(chan error, 1)
	go func() {
		err := a.scheduler.Run(ctx)
		// A poller failure ends the process, tray included.
		cancel()
		pollErr <- err
	}()

	if err := tray.Run(ctx, tray.Options{
		Target:     a.target,
		Client:     a.client,
		Logger:     logger.Named("tray"),
		Initial:    initial,
		Timeout:    cfg.QueryTimeout(),
		Dispatched: a.scheduler.Dispatched(),
		OnQuit:     cancel,
	}); err != nil {
		return err
	}

	cancel()
	return <-pollErr
}
