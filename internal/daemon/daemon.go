// Package daemon runs the background poll loop: sleep, query the server,
// diff presence, decide notifications and dispatch them.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/notify"
	"github.com/rescale/mcnotify/internal/presence"
	"github.com/rescale/mcnotify/internal/retry"
)

// Querier performs one status round-trip. *status.Client implements it.
type Querier interface {
	Query(ctx context.Context, target models.ServerTarget) (*models.Snapshot, error)
}

// Config holds scheduler configuration.
type Config struct {
	// Target is the server to poll.
	Target models.ServerTarget

	// Interval is the sleep between the end of one cycle and the next query.
	Interval time.Duration

	// Mode selects the notification policy. ModeAuto is resolved against Watch.
	Mode notify.Mode

	// Watch is the watch list; empty means every player.
	Watch presence.WatchList

	// Retry controls how connection errors are retried within a cycle.
	Retry retry.Config
}

// DefaultConfig returns a scheduler configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval: 30 * time.Second,
		Mode:     notify.ModeAuto,
		Watch:    presence.NewWatchList(nil),
		Retry:    retry.DefaultConfig(),
	}
}

// Scheduler owns the presence state for the life of Run.
type Scheduler struct {
	cfg     *Config
	client  Querier
	sink    notify.Sink
	tracker presence.Tracker
	policy  notify.Policy
	logger  *logging.Logger

	// dispatched receives every delivered request. Sends never block; with
	// no reader the entries are dropped.
	dispatched chan HistoryEntry

	// sleep waits between cycles; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a scheduler. A nil sink discards notifications.
func New(cfg *Config, client Querier, sink notify.Sink, logger *logging.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sink == nil {
		sink = notify.Discard{}
	}
	if logger == nil {
		logger = logging.Nop()
	}

	mode := notify.ResolveMode(cfg.Mode, cfg.Watch)
	return &Scheduler{
		cfg:     cfg,
		client:  client,
		sink:    sink,
		tracker: mode.Tracker(cfg.Watch),
		policy:  notify.Policy{Mode: mode, Target: cfg.Target},
		logger:  logger,
		sleep:   sleepContext,

		dispatched: make(chan HistoryEntry, DefaultHistorySize),
	}
}

// Mode returns the resolved notification mode.
func (s *Scheduler) Mode() notify.Mode {
	return s.policy.Mode
}

// Dispatched returns the channel of delivered notifications. The scheduler
// keeps no copy; a reader that wants a history owns one.
func (s *Scheduler) Dispatched() <-chan HistoryEntry {
	return s.dispatched
}

// Run polls until ctx is cancelled (returns nil) or a cycle fails (returns
// the error). The first cycle starts after one full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().
		Str("server", s.cfg.Target.String()).
		Str("interval", s.cfg.Interval.String()).
		Str("mode", s.policy.Mode.String()).
		Strs("watch", s.cfg.Watch.Entries()).
		Msg("Poller starting")

	state := presence.NewState()
	for {
		if err := s.sleep(ctx, s.cfg.Interval); err != nil {
			s.logger.Info().Msg("Poll loop cancelled by context")
			return nil
		}

		next, err := s.RunOnce(ctx, state)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info().Msg("Poll loop cancelled by context")
				return nil
			}
			s.logger.Error().Err(err).Msg("Poll loop stopped")
			return err
		}
		state = next
	}
}

// RunOnce performs a single cycle from state and returns the next state. On
// error the returned state is the one to keep: state itself when the query
// failed, the updated state when a dispatch failed.
func (s *Scheduler) RunOnce(ctx context.Context, state presence.State) (presence.State, error) {
	s.logger.Debug().Msg("Starting poll cycle")

	cfg := s.cfg.Retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", s.cfg.Retry.MaxRetries).
			Dur("backoff", delay).
			Msg("Status query failed, retrying")
	}

	var snap *models.Snapshot
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		var err error
		snap, err = s.client.Query(ctx, s.cfg.Target)
		return err
	})
	if err != nil {
		return state, fmt.Errorf("status query failed: %w", err)
	}

	next, events := s.tracker.Update(state, snap)
	s.logCycle(state, next, snap, len(events))

	for _, req := range s.policy.Decide(events, snap) {
		s.logger.Info().
			Str("event", req.Kind.String()).
			Str("summary", req.Summary).
			Msg("Player joined")
		if err := s.sink.Dispatch(ctx, req); err != nil {
			if errors.Is(err, context.Canceled) {
				return next, err
			}
			return next, fmt.Errorf("failed to dispatch notification: %w", err)
		}
		select {
		case s.dispatched <- newHistoryEntry(time.Now(), req):
		default:
		}
	}
	return next, nil
}

func (s *Scheduler) logCycle(prev, next presence.State, snap *models.Snapshot, events int) {
	switch {
	case prev.Tracking && !next.Tracking:
		s.logger.Info().
			Int("online", snap.OnlineCount).
			Msg("Server stopped disclosing players, tracking reset")
	case !prev.Tracking && next.Tracking:
		s.logger.Info().
			Int("online", snap.OnlineCount).
			Int("known", len(next.KnownIDs)).
			Msg("Presence baseline established")
	}

	s.logger.Debug().
		Int("online", snap.OnlineCount).
		Int("max", snap.MaxCount).
		Bool("sample", snap.HasSample()).
		Strs("known_ids", next.IDs()).
		Int("events", events).
		Msg("Poll cycle complete")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Summary describes a scheduler configuration for display.
type Summary struct {
	Target   models.ServerTarget
	Interval time.Duration
	Mode     notify.Mode
	Watch    []string
	Retries  int
}

// Summary returns the effective configuration.
func (s *Scheduler) Summary() *Summary {
	return &Summary{
		Target:   s.cfg.Target,
		Interval: s.cfg.Interval,
		Mode:     s.policy.Mode,
		Watch:    s.cfg.Watch.Entries(),
		Retries:  s.cfg.Retry.MaxRetries,
	}
}

// WriteSummary writes the summary to a writer.
func (s *Summary) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Watching %s\n", s.Target)
	fmt.Fprintf(w, "  Poll Interval: %s\n", s.Interval)
	fmt.Fprintf(w, "  Mode: %s\n", s.Mode)
	if len(s.Watch) > 0 {
		fmt.Fprintf(w, "  Watch List: %v\n", s.Watch)
	} else {
		fmt.Fprintf(w, "  Watch List: (everyone)\n")
	}
	fmt.Fprintf(w, "  Retries: %d\n", s.Retries)
}
