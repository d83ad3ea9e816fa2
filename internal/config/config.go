// Package config provides configuration management for mcnotify.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/models"
	"github.com/rescale/mcnotify/internal/notify"
)

// Config is the complete mcnotify configuration.
//
// Config file location:
//   - Windows: %APPDATA%\mcnotify\mcnotify.conf
//   - Unix: ~/.config/mcnotify/mcnotify.conf
//
// INI format:
//
//	[server]
//	hostname = example.com
//	port = 25565
//
//	[poll]
//	refresh_interval_seconds = 30
//	query_timeout_seconds = 10
//	max_retries = 3
//
//	[notifications]
//	enabled = true
//	mode = auto
//	watch_list = Steve, 069a79f4-44e9-4726-a5be-fca90e38aaf5
//	beep = false
//
//	[telegram]
//	token =
//	chat_id = 0
//
//	[logging]
//	level = info
//	file =
type Config struct {
	Server        ServerConfig
	Poll          PollConfig
	Notifications NotificationConfig
	Telegram      TelegramConfig
	Logging       LoggingConfig
}

// ServerConfig identifies the watched server.
type ServerConfig struct {
	// Hostname is required.
	Hostname string `ini:"hostname" yaml:"hostname"`

	// Port defaults to 25565.
	Port int `ini:"port" yaml:"port"`
}

// PollConfig controls the background poller.
type PollConfig struct {
	// RefreshIntervalSeconds is the sleep between polls.
	// Minimum: 1, Maximum: 86400 (24 hours), Default: 30
	RefreshIntervalSeconds int `ini:"refresh_interval_seconds" yaml:"refresh_interval_seconds"`

	// QueryTimeoutSeconds bounds one status query.
	// Minimum: 1, Maximum: 300, Default: 10
	QueryTimeoutSeconds int `ini:"query_timeout_seconds" yaml:"query_timeout_seconds"`

	// MaxRetries is how often a failed query is retried before the poller
	// gives up. 0 stops on the first failure. Default: 3
	MaxRetries int `ini:"max_retries" yaml:"max_retries"`
}

// NotificationConfig selects what is notified and how.
type NotificationConfig struct {
	// Enabled turns desktop notifications on. Default: true
	Enabled bool `ini:"enabled" yaml:"enabled"`

	// Mode is auto, broadcast, unknown or watchlist. Default: auto
	Mode string `ini:"mode" yaml:"mode"`

	// WatchList is a comma-separated list of player names or ids.
	WatchList string `ini:"watch_list" yaml:"watch_list"`

	// Beep plays the system bell with each notification.
	Beep bool `ini:"beep" yaml:"beep"`
}

// TelegramConfig enables the optional Telegram sink when both are set.
type TelegramConfig struct {
	Token  string `ini:"token" yaml:"token"`
	ChatID int64  `ini:"chat_id" yaml:"chat_id"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Default: info
	Level string `ini:"level" yaml:"level"`

	// File additionally receives JSON log lines when set.
	File string `ini:"file" yaml:"file"`
}

// Config validation errors
var (
	ErrMissingHostname = errors.New("hostname is required")
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidRefresh  = errors.New("refresh_interval_seconds must be between 1 and 86400")
	ErrInvalidTimeout  = errors.New("query_timeout_seconds must be between 1 and 300")
	ErrInvalidRetries  = errors.New("max_retries must not be negative")
	ErrInvalidMode     = notify.ErrInvalidMode
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// DefaultConfigPath returns the default path for the mcnotify.conf file.
//   - Windows: %APPDATA%\mcnotify\mcnotify.conf
//   - Unix: ~/.config/mcnotify/mcnotify.conf
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
			}
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "mcnotify")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "mcnotify")
	}

	return filepath.Join(configDir, "mcnotify.conf"), nil
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: int(models.DefaultPort),
		},
		Poll: PollConfig{
			RefreshIntervalSeconds: 30,
			QueryTimeoutSeconds:    10,
			MaxRetries:             3,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Mode:    notify.ModeAuto.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from an INI file.
// If path is empty, uses the default path.
// If the file doesn't exist, returns a config with default values and no error.
// If the file exists but is invalid, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	serverSection := iniFile.Section("server")
	cfg.Server.Hostname = strings.TrimSpace(serverSection.Key("hostname").String())
	cfg.Server.Port = serverSection.Key("port").MustInt(int(models.DefaultPort))

	pollSection := iniFile.Section("poll")
	cfg.Poll.RefreshIntervalSeconds = pollSection.Key("refresh_interval_seconds").MustInt(30)
	cfg.Poll.QueryTimeoutSeconds = pollSection.Key("query_timeout_seconds").MustInt(10)
	cfg.Poll.MaxRetries = pollSection.Key("max_retries").MustInt(3)

	notifySection := iniFile.Section("notifications")
	cfg.Notifications.Enabled = notifySection.Key("enabled").MustBool(true)
	cfg.Notifications.Mode = notifySection.Key("mode").MustString(notify.ModeAuto.String())
	cfg.Notifications.WatchList = notifySection.Key("watch_list").String()
	cfg.Notifications.Beep = notifySection.Key("beep").MustBool(false)

	telegramSection := iniFile.Section("telegram")
	cfg.Telegram.Token = telegramSection.Key("token").String()
	cfg.Telegram.ChatID = telegramSection.Key("chat_id").MustInt64(0)

	loggingSection := iniFile.Section("logging")
	cfg.Logging.Level = loggingSection.Key("level").MustString("info")
	cfg.Logging.File = loggingSection.Key("file").String()

	return cfg, nil
}

// SaveConfig saves configuration to an INI file.
// If path is empty, uses the default path.
// Creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()
	sections := []struct {
		name string
		v    interface{}
	}{
		{"server", &cfg.Server},
		{"poll", &cfg.Poll},
		{"notifications", &cfg.Notifications},
		{"telegram", &cfg.Telegram},
		{"logging", &cfg.Logging},
	}
	for _, s := range sections {
		section, err := iniFile.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", s.name, err)
		}
		if err := section.ReflectFrom(s.v); err != nil {
			return fmt.Errorf("failed to write %s section: %w", s.name, err)
		}
	}

	// The telegram token is a credential: write user-only, via temp file + rename.
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns nil if valid, or an error describing what's wrong.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Hostname) == "" {
		return ErrMissingHostname
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if cfg.Poll.RefreshIntervalSeconds < 1 || cfg.Poll.RefreshIntervalSeconds > 86400 {
		return ErrInvalidRefresh
	}
	if cfg.Poll.QueryTimeoutSeconds < 1 || cfg.Poll.QueryTimeoutSeconds > 300 {
		return ErrInvalidTimeout
	}
	if cfg.Poll.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if _, err := notify.ParseMode(cfg.Notifications.Mode); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}
	return nil
}

// Target returns the watched server. Call Validate first.
func (cfg *Config) Target() (models.ServerTarget, error) {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return models.ServerTarget{}, ErrInvalidPort
	}
	return models.ParseTarget(cfg.Server.Hostname, uint16(cfg.Server.Port))
}

// RefreshInterval returns the poll interval as a duration.
func (cfg *Config) RefreshInterval() time.Duration {
	return time.Duration(cfg.Poll.RefreshIntervalSeconds) * time.Second
}

// QueryTimeout returns the per-query bound as a duration.
func (cfg *Config) QueryTimeout() time.Duration {
	return time.Duration(cfg.Poll.QueryTimeoutSeconds) * time.Second
}

// Mode returns the parsed notification mode (ModeAuto if invalid).
func (cfg *Config) Mode() notify.Mode {
	m, _ := notify.ParseMode(cfg.Notifications.Mode)
	return m
}

// GetWatchList returns the watch list entries as a slice.
func (cfg *Config) GetWatchList() []string {
	if cfg.Notifications.WatchList == "" {
		return nil
	}
	entries := strings.Split(cfg.Notifications.WatchList, ",")
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e != "" {
			result = append(result, e)
		}
	}
	return result
}

// SetWatchList sets the watch list from a slice.
func (cfg *Config) SetWatchList(entries []string) {
	cfg.Notifications.WatchList = strings.Join(entries, ",")
}

// TelegramEnabled reports whether both telegram settings are present.
func (cfg *Config) TelegramEnabled() bool {
	return cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0
}
