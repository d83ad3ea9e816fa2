// Package models defines the data structures shared by the presence tracker,
// the status client and the tray.
package models

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"
)

// DefaultPort is the standard Minecraft server port.
const DefaultPort uint16 = 25565

// ErrEmptyHost is returned by ParseTarget when no hostname is given.
var ErrEmptyHost = errors.New("hostname is required")

// ServerTarget identifies the one server a running instance watches.
type ServerTarget struct {
	Host string `json:"host" yaml:"host"`
	Port uint16 `json:"port" yaml:"port"`
}

// ParseTarget builds a ServerTarget. A port of 0 selects DefaultPort.
func ParseTarget(host string, port uint16) (ServerTarget, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return ServerTarget{}, ErrEmptyHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return ServerTarget{Host: host, Port: port}, nil
}

// String renders the target as "host:port", the form used in notification text.
func (t ServerTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// Address returns the dialable address (IPv6 literals are bracketed).
func (t ServerTarget) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}

// PlayerRef is one entry of a status sample.
type PlayerRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// NormalizedID returns the player's id with separators stripped.
func (p PlayerRef) NormalizedID() string {
	return NormalizeID(p.ID)
}

// Snapshot is one point-in-time status response.
//
// Sample is nil when the server did not disclose individual players, which is
// different from an empty, non-nil sample (players disclosed, nobody online).
type Snapshot struct {
	OnlineCount int         `json:"online" yaml:"online"`
	MaxCount    int         `json:"max" yaml:"max"`
	Sample      []PlayerRef `json:"sample,omitempty" yaml:"sample,omitempty"`

	// Informational fields, not used by presence tracking.
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Protocol    int    `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Description string `json:"motd,omitempty" yaml:"motd,omitempty"`
	Favicon     string `json:"-" yaml:"-"`
}

// HasSample reports whether the server disclosed individual players.
func (s *Snapshot) HasSample() bool {
	return s != nil && s.Sample != nil
}

// PlayerNames returns the sample names in snapshot order.
func (s *Snapshot) PlayerNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Sample))
	for _, p := range s.Sample {
		names = append(names, p.Name)
	}
	return names
}

// FindPlayer looks up a sample entry by normalized id.
func (s *Snapshot) FindPlayer(normalizedID string) (PlayerRef, bool) {
	if s == nil {
		return PlayerRef{}, false
	}
	for _, p := range s.Sample {
		if p.NormalizedID() == normalizedID {
			return p, true
		}
	}
	return PlayerRef{}, false
}

// isIDSeparator lists the characters that may appear between the hex groups
// of a textual player id.
func isIDSeparator(r rune) bool {
	switch r {
	case '-', '_', ':', ' ', '\t':
		return true
	}
	return false
}

// NormalizeID strips separator characters and lowercases the rest, so that
// "069A79F4-44E9-4726-..." and "069a79f444e94726..." compare equal. It is
// idempotent and keeps the remaining characters in order.
func NormalizeID(id string) string {
	return strings.Map(func(r rune) rune {
		if isIDSeparator(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, id)
}
