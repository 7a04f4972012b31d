package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Script.Command != def.Script.Command {
		t.Errorf("command = %q, want default %q", cfg.Script.Command, def.Script.Command)
	}
	if cfg.Logs.Capacity != def.Logs.Capacity {
		t.Errorf("capacity = %d, want default %d", cfg.Logs.Capacity, def.Logs.Capacity)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roommon.yaml")
	data := `
script:
  command: /opt/room/server.sh
  args: ["--verbose"]
  kill_timeout_seconds: 3
refresh:
  interval_ms: 250
logs:
  capacity: 50
restart:
  max_attempts: 2
  backoff_ms: 100
  max_backoff_ms: 400
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Script.Command != "/opt/room/server.sh" {
		t.Errorf("command = %q", cfg.Script.Command)
	}
	if len(cfg.Script.Args) != 1 || cfg.Script.Args[0] != "--verbose" {
		t.Errorf("args = %v", cfg.Script.Args)
	}
	if cfg.RefreshInterval() != 250*time.Millisecond {
		t.Errorf("interval = %v, want 250ms", cfg.RefreshInterval())
	}
	if cfg.KillTimeout() != 3*time.Second {
		t.Errorf("kill timeout = %v, want 3s", cfg.KillTimeout())
	}
	// Sections absent from the file keep their defaults
	if cfg.Puzzles.StaleAfterSeconds != DefaultConfig().Puzzles.StaleAfterSeconds {
		t.Errorf("stale_after_seconds = %d, want default", cfg.Puzzles.StaleAfterSeconds)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roommon.yaml")
	if err := os.WriteFile(path, []byte("logs:\n  capacity: 0\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for zero log capacity")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty command", func(c *Config) { c.Script.Command = " " }, false},
		{"zero interval", func(c *Config) { c.Refresh.IntervalMS = 0 }, false},
		{"negative attempts", func(c *Config) { c.Restart.MaxAttempts = -1 }, false},
		{"record without path", func(c *Config) { c.Record.Enabled = true }, false},
		{"record with path", func(c *Config) { c.Record.Enabled = true; c.Record.Path = "x.db" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Restart.BackoffMS = 100
	cfg.Restart.MaxBackoffMS = 350

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		350 * time.Millisecond, // capped
		350 * time.Millisecond,
	}
	for i, w := range want {
		if got := cfg.Backoff(i + 1); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}
