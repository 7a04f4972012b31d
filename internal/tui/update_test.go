package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"roommon/internal/config"
	"roommon/internal/model"
	"roommon/internal/parse"
	"roommon/internal/script"
	"roommon/internal/state"
)

// fakeRunner satisfies script.Runner without spawning anything
type fakeRunner struct {
	streams int
}

func (f *fakeRunner) Stream() (<-chan script.Line, <-chan error, func()) {
	f.streams++
	lines := make(chan script.Line)
	errs := make(chan error, 1)
	return lines, errs, func() {}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Restart.MaxAttempts = 2
	cfg.Restart.BackoffMS = 1
	cfg.Restart.MaxBackoffMS = 1

	parser, err := parse.New(parse.Config{})
	if err != nil {
		t.Fatalf("parse.New: %v", err)
	}
	st := state.New(cfg.Logs.Capacity, cfg.StaleAfter())
	return NewModel(cfg, &fakeRunner{}, parser, st, nil)
}

func TestStreamLostEntersReconnecting(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseRunning

	updated, cmd := m.Update(streamErrMsg{err: script.ErrProcessLost})
	got := updated.(Model)

	if got.phase != phaseReconnecting {
		t.Errorf("phase = %s, want RECONNECTING", got.phase)
	}
	if got.reconnectAttempt != 1 {
		t.Errorf("attempt = %d, want 1", got.reconnectAttempt)
	}
	if cmd == nil {
		t.Errorf("expected a reattach command")
	}
}

func TestRestartsExhaustedBecomesDisconnected(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseReconnecting
	m.reconnectAttempt = m.cfg.Restart.MaxAttempts

	updated, cmd := m.Update(streamErrMsg{err: script.ErrProcessLost})
	got := updated.(Model)

	if got.phase != phaseDisconnected {
		t.Errorf("phase = %s, want DISCONNECTED", got.phase)
	}
	if cmd != nil {
		t.Errorf("no further restarts expected")
	}
	// The session keeps its state: the disconnect left a notice, not a reset
	snap := got.state.Snapshot(time.Now())
	if len(snap.Logs) == 0 {
		t.Errorf("expected a disconnect notice in the log window")
	}
}

func TestLineArrivalResumesRunning(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseReconnecting
	m.reconnectAttempt = 1

	updated, cmd := m.Update(lineMsg{
		Text:   "PUZZLE 3 STATE=Active IP=10.0.0.5 T=100",
		Stream: "stdout",
		At:     time.Now(),
	})
	got := updated.(Model)

	if got.phase != phaseRunning {
		t.Errorf("phase = %s, want RUNNING", got.phase)
	}
	if got.reconnectAttempt != 0 {
		t.Errorf("attempt = %d, want reset to 0", got.reconnectAttempt)
	}
	if cmd == nil {
		t.Errorf("expected a wait-for-line command")
	}

	snap := got.state.Snapshot(time.Now())
	if len(snap.Puzzles) != 1 || snap.Puzzles[0].State != model.StateActive {
		t.Errorf("line was not applied to aggregate state: %+v", snap.Puzzles)
	}
}

func TestQuitCancelsStream(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseRunning
	cancelled := false
	m.streamCancel = func() { cancelled = true }

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := updated.(Model)

	if !cancelled {
		t.Errorf("quit must cancel the stream so the child is reaped")
	}
	if got.phase != phaseTerminated {
		t.Errorf("phase = %s, want TERMINATED", got.phase)
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.Quit")
	}
}

func TestManualRestartFromDisconnected(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseDisconnected
	m.reconnectAttempt = m.cfg.Restart.MaxAttempts

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	got := updated.(Model)

	if got.phase != phaseReconnecting {
		t.Errorf("phase = %s, want RECONNECTING", got.phase)
	}
	if got.reconnectAttempt != 0 {
		t.Errorf("attempt = %d, want reset to 0", got.reconnectAttempt)
	}
	if cmd == nil {
		t.Errorf("expected an attach command")
	}
}

func TestLateAttachAfterQuitIsReaped(t *testing.T) {
	m := newTestModel(t)
	m.phase = phaseTerminated
	cancelled := false

	updated, _ := m.Update(attachedMsg{cancel: func() { cancelled = true }})
	got := updated.(Model)

	if !cancelled {
		t.Errorf("attach racing a quit must cancel the fresh stream")
	}
	if got.phase != phaseTerminated {
		t.Errorf("phase = %s, want TERMINATED", got.phase)
	}
}
