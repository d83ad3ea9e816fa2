// Package cli provides the command-line interface for mcnotify.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rescale/mcnotify/internal/config"
	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool
	logFile string

	// Server and poll flags, applied over the config file
	flags serverFlags

	// Effective configuration (defaults < file < flags)
	appConfig *config.Config

	// Global logger, read from the signal goroutine as well
	logger atomic.Pointer[logging.Logger]

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command. Run without a subcommand it shows the
// tray icon and polls in the background.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcnotify",
		Short: "Desktop notifications when players join a Minecraft server",
		Long: `mcnotify ` + version.Version + ` - Built: ` + version.BuildTime + `
Watches a Minecraft server and notifies you when players join.

Tray Mode (default):
  Shows "{online} / {max}" and the player list in the system tray.
  Click the count to refresh it. Joins are announced as desktop
  notifications while the tray is running.

Headless Mode (watch):
  Polls and notifies without a tray icon.

Modes (--mode):
  auto       watchlist if --watch is given, otherwise unknown
  broadcast  every identified join
  unknown    identified joins, plus joins inferred from the player count
  watchlist  only players named in --watch

Examples:
  # Tray for a server on the default port
  mcnotify -H play.example.com

  # Only tell me about two friends, check every 10 seconds
  mcnotify -H play.example.com -r 10 -w Steve -w Alex

  # Headless, e.g. under systemd
  mcnotify watch -H play.example.com`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfigAndLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(GetContext())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default: ~/.config/mcnotify/mcnotify.conf)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	flags.register(rootCmd)

	rootCmd.Version = version.String()

	return rootCmd
}

// initConfigAndLogger builds the effective configuration and the logger.
// Validation is left to the commands that need a complete configuration.
func initConfigAndLogger(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if verbose || debug {
		cfg.Logging.Level = zerolog.DebugLevel.String()
	}
	appConfig = cfg

	l, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	if old := logger.Swap(l); old != nil {
		old.Close()
	}
	return nil
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				GetLogger().Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	if l := logger.Swap(nil); l != nil {
		l.Close()
	}
	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	l := logging.NewDefault()
	if logger.CompareAndSwap(nil, l) {
		return l
	}
	return logger.Load()
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// validConfig returns the effective configuration after validation.
func validConfig() (*config.Config, error) {
	if appConfig == nil {
		appConfig = config.NewConfig()
	}
	if err := appConfig.Validate(); err != nil {
		if err == config.ErrMissingHostname {
			return nil, fmt.Errorf("%w (use --hostname or set [server] hostname in the config file)", err)
		}
		return nil, err
	}
	return appConfig, nil
}
