package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
server:
  ws_url: wss://staging.clipforge.io/api
  rest_url: https://staging.clipforge.io/api/v1
session:
  ping_interval: 20s
  reconnect_base_delay: 2s
  max_reconnect_attempts: 5
`)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Server.WSURL != "wss://staging.clipforge.io/api" {
		t.Errorf("WSURL = %q", cfg.Server.WSURL)
	}
	if cfg.Session.PingInterval != 20*time.Second {
		t.Errorf("PingInterval = %s, want 20s", cfg.Session.PingInterval)
	}
	if cfg.Session.ReconnectBaseDelay != 2*time.Second {
		t.Errorf("ReconnectBaseDelay = %s, want 2s", cfg.Session.ReconnectBaseDelay)
	}
	if cfg.Session.MaxReconnectAttempts != 5 {
		t.Errorf("MaxReconnectAttempts = %d, want 5", cfg.Session.MaxReconnectAttempts)
	}

	// Unset fields pick up defaults
	if cfg.Session.SyncDebounce != DefaultSyncDebounce {
		t.Errorf("SyncDebounce = %s, want default %s", cfg.Session.SyncDebounce, DefaultSyncDebounce)
	}
	if cfg.Notifications.MaxRetained != DefaultMaxRetained {
		t.Errorf("MaxRetained = %d, want default %d", cfg.Notifications.MaxRetained, DefaultMaxRetained)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CLIPFORGE_WS", "wss://env.clipforge.io/api")

	path := writeConfig(t, "server:\n  ws_url: ${CLIPFORGE_WS}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.WSURL != "wss://env.clipforge.io/api" {
		t.Errorf("WSURL = %q, want expanded env value", cfg.Server.WSURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "bad ws scheme",
			mutate: func(c *Config) { c.Server.WSURL = "https://clipforge.io" },
			want:   "ws_url",
		},
		{
			name:   "pong timeout exceeds ping interval",
			mutate: func(c *Config) { c.Session.PongTimeout = c.Session.PingInterval },
			want:   "pong_timeout",
		},
		{
			name:   "max delay below base delay",
			mutate: func(c *Config) { c.Session.ReconnectMaxDelay = c.Session.ReconnectBaseDelay / 2 },
			want:   "reconnect_max_delay",
		},
		{
			name:   "zero attempts",
			mutate: func(c *Config) { c.Session.MaxReconnectAttempts = -1 },
			want:   "max_reconnect_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
