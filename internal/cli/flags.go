package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rescale/mcnotify/internal/config"
	"github.com/rescale/mcnotify/internal/models"
)

// serverFlags are the command-line overrides for the config file.
type serverFlags struct {
	hostname string
	port     uint16
	refresh  int
	watch    []string
	mode     string
	retries  int
	timeout  int
}

func (f *serverFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.hostname, "hostname", "H", "", "Server hostname (required unless set in the config file)")
	pf.Uint16VarP(&f.port, "port", "p", models.DefaultPort, "Server port")
	pf.IntVarP(&f.refresh, "refresh", "r", 30, "Seconds to wait between polls")
	pf.StringSliceVarP(&f.watch, "watch", "w", nil, "Player name or id to watch (repeatable or comma-separated)")
	pf.StringVarP(&f.mode, "mode", "m", "auto", "Notification mode: auto, broadcast, unknown, watchlist")
	pf.IntVar(&f.retries, "retries", 3, "Retries for a failed query before giving up (0 = stop on first failure)")
	pf.IntVar(&f.timeout, "timeout", 10, "Seconds before a status query times out")
}

// apply copies every flag the user set onto cfg.
func (f *serverFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("hostname") {
		cfg.Server.Hostname = f.hostname
	}
	if changed("port") {
		if f.port == 0 {
			return fmt.Errorf("%w: --port 0", config.ErrInvalidPort)
		}
		cfg.Server.Port = int(f.port)
	}
	if changed("refresh") {
		cfg.Poll.RefreshIntervalSeconds = f.refresh
	}
	if changed("watch") {
		cfg.SetWatchList(f.watch)
	}
	if changed("mode") {
		cfg.Notifications.Mode = f.mode
	}
	if changed("retries") {
		cfg.Poll.MaxRetries = f.retries
	}
	if changed("timeout") {
		cfg.Poll.QueryTimeoutSeconds = f.timeout
	}
	return nil
}
