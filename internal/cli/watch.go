package cli

import (
	"github.com/spf13/cobra"
)

// newWatchCmd creates the 'watch' command.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the server and notify on joins, without a tray icon",
		Long: `Run the poller in the foreground without a tray icon.

The first poll happens one refresh interval after startup and only records
who is online. Later polls notify about players that joined since the
previous one. Desktop notifications are skipped when there is no graphical
session; configure [telegram] to get notified from a headless machine.

The command exits with an error when the server stays unreachable after
--retries attempts, when it sends a malformed response, or when a
notification cannot be delivered.

Examples:
  # Watch with defaults (port 25565, every 30 seconds)
  mcnotify watch -H play.example.com

  # Watch one player, fail on the first error
  mcnotify watch -H play.example.com -w Steve --retries 0

  # Debug logging to a file
  mcnotify watch -H play.example.com --debug --log-file mcnotify.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := validConfig()
			if err != nil {
				return err
			}
			logger := GetLogger()

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			a.scheduler.Summary().WriteSummary(cmd.OutOrStdout())
			logger.Info().
				Str("server", a.target.String()).
				Str("mode", a.scheduler.Mode().String()).
				Msg("Headless watch started")
			return a.scheduler.Run(GetContext())
		},
	}
}
