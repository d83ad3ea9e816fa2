package cli

import (
	"github.com/rescale/mcnotify/internal/config"
	"github.com/rescale/mcnotify/internal/daemon"
	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/notify"
	"github.com/rescale/mcnotify/internal/presence"
	"github.com/rescale/mcnotify/internal/retry"
	"github.com/rescale/mcnotify/internal/status"
)

// app is everything a running instance needs, built from the configuration.
type app struct {
	cfg       *config.Config
	target    models.ServerTarget
	client    *status.Client
	sink      notify.Sink
	scheduler *daemon.Scheduler
}

func newApp(cfg *config.Config, log *logging.Logger) (*app, error) {
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}

	client := status.NewClient(status.Options{
		Timeout: cfg.QueryTimeout(),
		Logger:  log.Named("status"),
	})

	sink, err := newSink(cfg, log)
	if err != nil {
		return nil, err
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Poll.MaxRetries

	scheduler := daemon.New(&daemon.Config{
		Target:   target,
		Interval: cfg.RefreshInterval(),
		Mode:     cfg.Mode(),
		Watch:    presence.NewWatchList(cfg.GetWatchList()),
		Retry:    retryCfg,
	}, client, sink, log.Named("poller"))

	return &app{
		cfg:       cfg,
		target:    target,
		client:    client,
		sink:      sink,
		scheduler: scheduler,
	}, nil
}

// newSink combines the enabled notification sinks.
func newSink(cfg *config.Config, log *logging.Logger) (notify.Sink, error) {
	var sinks notify.MultiSink

	switch {
	case !cfg.Notifications.Enabled:
		log.Info().Msg("Desktop notifications disabled by configuration")
	case notify.Headless():
		log.Warn().Msg("No graphical session (DISPLAY/WAYLAND_DISPLAY unset), desktop notifications disabled")
	default:
		sinks = append(sinks, notify.NewDesktopSink(&notify.Config{
			Beep: cfg.Notifications.Beep,
		}, log.Named("notify")))
	}

	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegramSink(cfg.Telegram.Token, cfg.Telegram.ChatID, log.Named("telegram"))
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	}

	if len(sinks) == 0 {
		log.Warn().Msg("No notification sink enabled, joins will only be logged")
		return notify.Discard{}, nil
	}
	return sinks, nil
}
