// cmd/roommon/main.go
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"roommon/internal/config"
	"roommon/internal/parse"
	"roommon/internal/script"
	"roommon/internal/state"
	"roommon/internal/storage"
	"roommon/internal/tui"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "roommon.yaml", "path to the config file")
		scriptCmd  = pflag.String("script", "", "control script command (overrides config)")
		scriptArgs = pflag.StringSlice("script-args", nil, "control script arguments (overrides config)")
		interval   = pflag.Int("interval", 0, "refresh interval in milliseconds (overrides config)")
		recordPath = pflag.String("record", "", "record the session to the given sqlite file")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	// Flags win over the config file
	if *scriptCmd != "" {
		cfg.Script.Command = *scriptCmd
	}
	if len(*scriptArgs) > 0 {
		cfg.Script.Args = *scriptArgs
	}
	if *interval > 0 {
		cfg.Refresh.IntervalMS = *interval
	}
	if *recordPath != "" {
		cfg.Record.Enabled = true
		cfg.Record.Path = *recordPath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := script.Preflight(cfg.Script.Command); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintln(os.Stderr, "\nCheck script.command in the config file, or pass --script.")
		os.Exit(1)
	}

	parser, err := parse.New(parse.Config{
		PuzzlePattern:    cfg.Parser.PuzzlePattern,
		HeartbeatPattern: cfg.Parser.HeartbeatPattern,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid parser pattern: %v\n", err)
		os.Exit(1)
	}

	// Create session recorder
	var recorder *storage.Recorder
	if cfg.Record.Enabled {
		recorder, err = storage.NewRecorder(cfg.Record.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to open session recording: %v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()
	}

	st := state.New(cfg.Logs.Capacity, cfg.StaleAfter())
	runner := script.NewRunner(script.Config{
		Command:     cfg.Script.Command,
		Args:        cfg.Script.Args,
		KillTimeout: cfg.KillTimeout(),
	})

	// Start TUI
	m := tui.NewModel(cfg, runner, parser, st, recorder)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
