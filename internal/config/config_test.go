package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), constants.ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("habitbloom", "habitbloom.db")) || strings.HasPrefix(cfg.DBPath, "~") {
		t.Errorf("DBPath not expanded: %s", cfg.DBPath)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/garden.db
log_level: info
timezone: Europe/Paris
server:
  addr: 0.0.0.0:9000
  rate_limit: 10
  rate_window: 30s
notify:
  tray: false
`)
	t.Setenv("HABITBLOOM_SERVER_ADDR", "127.0.0.1:9100")
	t.Setenv("HABITBLOOM_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/garden.db" || cfg.LogLevel != "info" || cfg.Timezone != "Europe/Paris" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:9100" {
		t.Errorf("env override not applied: %s", cfg.Server.Addr)
	}
	if !cfg.Debug {
		t.Error("HABITBLOOM_DEBUG not applied")
	}
	if cfg.Server.RateLimit != 10 || cfg.Server.RateWindow != 30*time.Second {
		t.Errorf("rate limit = %d/%v", cfg.Server.RateLimit, cfg.Server.RateWindow)
	}
	if cfg.Notify.Tray || !cfg.Notify.Console {
		t.Errorf("notify = %+v, want tray off and console default", cfg.Notify)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", "log_level: loud\n", "LogLevel"},
		{"bad timezone", "timezone: Mars/Base\n", "Timezone"},
		{"bad addr", "server:\n  addr: nowhere\n", "Addr"},
		{"bad yaml", "server: [\n", "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"HABITBLOOM_DB_PATH":           "db_path",
		"HABITBLOOM_SERVER_ADDR":       "server.addr",
		"HABITBLOOM_SERVER_RATE_LIMIT": "server.rate_limit",
		"HABITBLOOM_NOTIFY_TRAY":       "notify.tray",
		"HABITBLOOM_LOG_LEVEL":         "log_level",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%s) = %s, want %s", in, got, want)
		}
	}
}
