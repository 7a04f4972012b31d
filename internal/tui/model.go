package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"roommon/internal/config"
	"roommon/internal/model"
	"roommon/internal/parse"
	"roommon/internal/script"
	"roommon/internal/state"
	"roommon/internal/storage"
)

// phase is the refresh loop's lifecycle state. All stream failures route
// through phaseDisconnected/phaseReconnecting; phaseTerminated is entered
// only on explicit user quit.
type phase int

const (
	phaseStarting phase = iota
	phaseAttached
	phaseRunning
	phaseDisconnected
	phaseReconnecting
	phaseTerminated
)

func (p phase) String() string {
	switch p {
	case phaseStarting:
		return "STARTING"
	case phaseAttached:
		return "ATTACHED"
	case phaseRunning:
		return "RUNNING"
	case phaseDisconnected:
		return "DISCONNECTED"
	case phaseReconnecting:
		return "RECONNECTING"
	case phaseTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Model represents the TUI application state
type Model struct {
	cfg      config.Config
	runner   script.Runner
	parser   *parse.Parser
	state    *state.State
	recorder *storage.Recorder // nil when recording is disabled

	phase            phase
	reconnectAttempt int
	lastErr          error

	lineChan     <-chan script.Line
	errChan      <-chan error
	streamCancel func()

	snapshot  state.Snapshot
	hostStats model.HostStats

	logView        viewport.Model
	logViewReady   bool
	logsAutoScroll bool

	width  int
	height int
}

// Message types for the Bubbletea update loop
type tickMsg time.Time

type attachedMsg struct {
	lines  <-chan script.Line
	errs   <-chan error
	cancel func()
}

type lineMsg script.Line

type streamErrMsg struct {
	err error
}

type hostStatsMsg model.HostStats

// NewModel creates a new TUI model. The aggregate state handle is owned
// here: the update loop is its only writer, the view reads snapshots.
func NewModel(cfg config.Config, runner script.Runner, parser *parse.Parser, st *state.State, recorder *storage.Recorder) Model {
	return Model{
		cfg:            cfg,
		runner:         runner,
		parser:         parser,
		state:          st,
		recorder:       recorder,
		phase:          phaseStarting,
		logsAutoScroll: true,
	}
}

// Init attaches the script stream and starts the render tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		attachStream(m.runner),
		tickCmd(m.cfg.RefreshInterval()),
		sampleHost(),
	)
}
