package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rescale/mcnotify/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Create, inspect and locate the mcnotify configuration file.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

// configPath resolves --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Write a configuration file with the default settings. Server and poll
flags given on the same command line are stored as well.

Examples:
  mcnotify config init -H play.example.com -w Steve
  mcnotify config init --force -c ./mcnotify.conf -H localhost`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			// Start from defaults, not from the file being replaced.
			cfg := config.NewConfig()
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			// The hostname may be filled in later; everything else must be valid now.
			check := *cfg
			if check.Server.Hostname == "" {
				check.Server.Hostname = "localhost"
			}
			if err := check.Validate(); err != nil {
				return err
			}

			if err := config.SaveConfig(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			GetLogger().Info().Str("path", path).Msg("Configuration saved")

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", path)
			if cfg.Server.Hostname == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Set [server] hostname before running mcnotify.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration after merging defaults, the configuration
file and command-line flags.

Priority: flags > config file > defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appConfig
			if cfg == nil {
				cfg = config.NewConfig()
			}
			return writeConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

// writeConfig prints cfg as YAML. The Telegram token is never printed.
func writeConfig(w io.Writer, cfg *config.Config) error {
	shown := *cfg
	if shown.Telegram.Token != "" {
		shown.Telegram.Token = fmt.Sprintf("<set (%d chars)>", len(cfg.Telegram.Token))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&shown); err != nil {
		return err
	}
	return enc.Close()
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
