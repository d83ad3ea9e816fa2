package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/status"
)

// newStatusCmd creates the 'status' command.
func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query the server once and print its status",
		Long: `Query the server once and print the player count, version, MOTD
and the players it discloses.

Output formats:
  text  human-readable (default)
  json  one JSON document
  yaml  one YAML document

Examples:
  mcnotify status -H play.example.com
  mcnotify status -H play.example.com -p 25570 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := validConfig()
			if err != nil {
				return err
			}
			target, err := cfg.Target()
			if err != nil {
				return err
			}

			client := status.NewClient(status.Options{
				Timeout: cfg.QueryTimeout(),
				Logger:  GetLogger().Named("status"),
			})
			snap, err := client.Query(GetContext(), target)
			if err != nil {
				return err
			}
			return writeStatus(cmd.OutOrStdout(), output, newStatusReport(target, snap))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}

// statusReport is the printable form of one snapshot.
type statusReport struct {
	Server   string             `json:"server" yaml:"server"`
	Online   int                `json:"online" yaml:"online"`
	Max      int                `json:"max" yaml:"max"`
	Version  string             `json:"version,omitempty" yaml:"version,omitempty"`
	Protocol int                `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	MOTD     string             `json:"motd,omitempty" yaml:"motd,omitempty"`
	Hidden   bool               `json:"players_hidden" yaml:"players_hidden"`
	Players  []models.PlayerRef `json:"players" yaml:"players"`
}

func newStatusReport(target models.ServerTarget, snap *models.Snapshot) *statusReport {
	players := snap.Sample
	if players == nil {
		players = []models.PlayerRef{}
	}
	return &statusReport{
		Server:   target.String(),
		Online:   snap.OnlineCount,
		Max:      snap.MaxCount,
		Version:  snap.Version,
		Protocol: snap.Protocol,
		MOTD:     snap.Description,
		Hidden:   !snap.HasSample(),
		Players:  players,
	}
}

func writeStatus(w io.Writer, format string, r *statusReport) error {
	switch strings.ToLower(format) {
	case "", "text":
		writeStatusText(w, r)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
}

func writeStatusText(w io.Writer, r *statusReport) {
	fmt.Fprintf(w, "Server: %s\n", r.Server)
	if r.Version != "" {
		fmt.Fprintf(w, "  Version: %s (protocol %d)\n", r.Version, r.Protocol)
	}
	if r.MOTD != "" {
		fmt.Fprintf(w, "  MOTD: %s\n", strings.ReplaceAll(r.MOTD, "\n", " / "))
	}
	fmt.Fprintf(w, "  Players: %d / %d\n", r.Online, r.Max)
	if r.Hidden {
		fmt.Fprintf(w, "  Player list hidden by the server\n")
		return
	}
	for _, p := range r.Players {
		fmt.Fprintf(w, "    - %s (%s)\n", p.Name, p.ID)
	}
}
