package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	Script  ScriptConfig  `yaml:"script"`
	Refresh RefreshConfig `yaml:"refresh"`
	Logs    LogConfig     `yaml:"logs"`
	Puzzles PuzzleConfig  `yaml:"puzzles"`
	Restart RestartConfig `yaml:"restart"`
	Parser  ParserConfig  `yaml:"parser"`
	Record  RecordConfig  `yaml:"record"`
}

// ScriptConfig describes how to launch the external control script
type ScriptConfig struct {
	// Command is the executable to run, e.g. "python3"
	Command string `yaml:"command"`
	// Args are passed verbatim; "-u" keeps python output unbuffered
	Args []string `yaml:"args"`
	// KillTimeoutSeconds bounds how long quit may wait for the child to die
	KillTimeoutSeconds int `yaml:"kill_timeout_seconds"`
}

// RefreshConfig controls the render tick
type RefreshConfig struct {
	IntervalMS int `yaml:"interval_ms"`
	// OnEvent additionally refreshes the snapshot on every parsed line
	OnEvent bool `yaml:"on_event"`
}

// LogConfig controls the bounded log buffer
type LogConfig struct {
	Capacity int `yaml:"capacity"`
}

// PuzzleConfig controls puzzle bookkeeping
type PuzzleConfig struct {
	// StaleAfterSeconds marks a puzzle stale when no update arrived within
	// this window; 0 disables stale marking
	StaleAfterSeconds int `yaml:"stale_after_seconds"`
}

// RestartConfig bounds script restarts after a lost stream
type RestartConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	BackoffMS    int `yaml:"backoff_ms"`
	MaxBackoffMS int `yaml:"max_backoff_ms"`
}

// ParserConfig allows overriding the recognized line grammar. The script's
// output format is a versioned text protocol; when it changes, the patterns
// can be adjusted here without a rebuild.
type ParserConfig struct {
	// PuzzlePattern must expose named groups: id, state, ip (optional), ts (optional)
	PuzzlePattern string `yaml:"puzzle_pattern"`
	// HeartbeatPattern may expose a named group: uptime
	HeartbeatPattern string `yaml:"heartbeat_pattern"`
}

// RecordConfig controls the optional sqlite session recorder
type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		Script: ScriptConfig{
			Command:            "python3",
			Args:               []string{"-u", "server.py"},
			KillTimeoutSeconds: 5,
		},
		Refresh: RefreshConfig{
			IntervalMS: 1000,
			OnEvent:    true,
		},
		Logs: LogConfig{
			Capacity: 1000,
		},
		Puzzles: PuzzleConfig{
			StaleAfterSeconds: 120,
		},
		Restart: RestartConfig{
			MaxAttempts:  5,
			BackoffMS:    500,
			MaxBackoffMS: 8000,
		},
	}
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults apply, so the dashboard runs with zero setup.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configurations the dashboard cannot run with
func (c Config) Validate() error {
	if strings.TrimSpace(c.Script.Command) == "" {
		return fmt.Errorf("script.command must not be empty")
	}
	if c.Refresh.IntervalMS <= 0 {
		return fmt.Errorf("refresh.interval_ms must be positive, got %d", c.Refresh.IntervalMS)
	}
	if c.Logs.Capacity <= 0 {
		return fmt.Errorf("logs.capacity must be positive, got %d", c.Logs.Capacity)
	}
	if c.Restart.MaxAttempts < 0 {
		return fmt.Errorf("restart.max_attempts must not be negative, got %d", c.Restart.MaxAttempts)
	}
	if c.Restart.BackoffMS <= 0 {
		return fmt.Errorf("restart.backoff_ms must be positive, got %d", c.Restart.BackoffMS)
	}
	if c.Record.Enabled && strings.TrimSpace(c.Record.Path) == "" {
		return fmt.Errorf("record.path must be set when record.enabled is true")
	}
	return nil
}

// RefreshInterval returns the render tick interval as a duration
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalMS) * time.Millisecond
}

// KillTimeout returns the bounded child shutdown window
func (c Config) KillTimeout() time.Duration {
	return time.Duration(c.Script.KillTimeoutSeconds) * time.Second
}

// StaleAfter returns the puzzle staleness window, 0 when disabled
func (c Config) StaleAfter() time.Duration {
	return time.Duration(c.Puzzles.StaleAfterSeconds) * time.Second
}

// Backoff returns the restart delay for the given attempt (1-based),
// doubling per attempt and capped at max_backoff_ms.
func (c Config) Backoff(attempt int) time.Duration {
	backoff := time.Duration(c.Restart.BackoffMS) * time.Millisecond
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if max := time.Duration(c.Restart.MaxBackoffMS) * time.Millisecond; max > 0 && backoff > max {
		backoff = max
	}
	return backoff
}
