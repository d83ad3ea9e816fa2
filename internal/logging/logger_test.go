package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, Component: "poller"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info().Int("online", 3).Msg("polled")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["message"] != "polled" {
		t.Errorf("message = %v, want polled", line["message"])
	}
	if line["component"] != "poller" {
		t.Errorf("component = %v, want poller", line["component"])
	}
	if line["online"] != float64(3) {
		t.Errorf("online = %v, want 3", line["online"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, Level: "warn"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info().Msg("hidden")
	l.Debug().Int("n", 1).Msg("hidden")
	l.Warn().Msgf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered lines: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("output missing warn line: %q", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Output: &bytes.Buffer{}, Level: "loud"}); err == nil {
		t.Error("New() with invalid level should fail")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcnotify.log")
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Named("tray").Error().Msg("icon failed")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "icon failed") || !strings.Contains(string(data), `"component":"tray"`) {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(buf.String(), "icon failed") {
		t.Errorf("console = %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error().Msg("dropped")
	l.Named("tray").Info().Msg("dropped too")
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
