package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"roommon/internal/hostinfo"
	"roommon/internal/model"
	"roommon/internal/parse"
	"roommon/internal/storage"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogView()
		m.refreshSnapshot()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.refreshSnapshot()
		return m, tea.Batch(tickCmd(m.cfg.RefreshInterval()), sampleHost())

	case hostStatsMsg:
		m.hostStats = model.HostStats(msg)

	case attachedMsg:
		if m.phase == phaseTerminated {
			// Quit raced a reconnect; reap the fresh child immediately
			msg.cancel()
			return m, nil
		}
		m.lineChan = msg.lines
		m.errChan = msg.errs
		m.streamCancel = msg.cancel
		m.phase = phaseAttached
		m.lastErr = nil

		// Host identity is set once; restarts keep the original start time
		m.state.SetServerInfo(model.ServerInfo{
			Hostname:  hostinfo.Hostname(),
			IP:        hostinfo.LocalIP(),
			StartTime: time.Now(),
		})
		return m, waitForLine(m.lineChan, m.errChan)

	case lineMsg:
		m.phase = phaseRunning
		m.reconnectAttempt = 0
		m.applyLine(model.LogEntry{
			Timestamp: msg.At,
			Message:   msg.Text,
			Stream:    msg.Stream,
		})
		if m.cfg.Refresh.OnEvent {
			m.refreshSnapshot()
		}
		// Keep waiting for the next line
		return m, waitForLine(m.lineChan, m.errChan)

	case streamErrMsg:
		if m.phase == phaseTerminated {
			return m, nil
		}
		return m.handleStreamLost(msg.err)
	}

	return m, nil
}

// handleKey processes operator input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m.quit()

	case "up", "k":
		m.logView.LineUp(1)
		m.logsAutoScroll = false

	case "down", "j":
		m.logView.LineDown(1)
		if m.logView.AtBottom() {
			m.logsAutoScroll = true
		}

	case "pgup":
		m.logView.HalfViewUp()
		m.logsAutoScroll = false

	case "pgdown":
		m.logView.HalfViewDown()
		if m.logView.AtBottom() {
			m.logsAutoScroll = true
		}

	case "home":
		m.logView.GotoTop()
		m.logsAutoScroll = false

	case "end":
		m.logView.GotoBottom()
		m.logsAutoScroll = true

	case "a":
		// Toggle auto-scroll
		m.logsAutoScroll = !m.logsAutoScroll
		if m.logsAutoScroll {
			m.logView.GotoBottom()
		}

	case "c":
		// Clear the log window
		m.state.ClearLogs()
		m.refreshSnapshot()

	case "r":
		// Manual restart once automatic attempts are exhausted
		if m.phase == phaseDisconnected {
			m.reconnectAttempt = 0
			m.phase = phaseReconnecting
			m.state.AppendNotice(time.Now(), "manual restart requested")
			return m, attachStream(m.runner)
		}
	}

	return m, nil
}

// quit terminates the session: the stream cancel kills the script within
// the configured timeout, so no child is left behind
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.phase = phaseTerminated
	return m, tea.Quit
}

// handleStreamLost routes a lost stream through the bounded restart
// policy. Aggregate state is retained: a successful restart resumes with
// everything learned so far.
func (m Model) handleStreamLost(err error) (tea.Model, tea.Cmd) {
	m.lastErr = err
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.lineChan = nil
	m.errChan = nil

	now := time.Now()
	if m.reconnectAttempt >= m.cfg.Restart.MaxAttempts {
		m.phase = phaseDisconnected
		m.state.AppendNotice(now, fmt.Sprintf("script lost and %d restart attempts exhausted: %v", m.cfg.Restart.MaxAttempts, err))
		m.refreshSnapshot()
		return m, nil
	}

	m.reconnectAttempt++
	m.phase = phaseReconnecting
	backoff := m.cfg.Backoff(m.reconnectAttempt)
	m.state.AppendNotice(now, fmt.Sprintf("script lost (%v), restart %d/%d in %s", err, m.reconnectAttempt, m.cfg.Restart.MaxAttempts, backoff))
	m.refreshSnapshot()
	return m, reattachStream(m.runner, backoff)
}

// applyLine feeds one raw line through the parser into the aggregate
// state, and mirrors it to the session recorder when enabled
func (m *Model) applyLine(entry model.LogEntry) {
	ev := m.parser.Parse(entry.Message, entry.Timestamp)
	m.state.Apply(entry, ev)

	if m.recorder != nil {
		m.recorder.RecordLog(storage.LogRecord{
			Timestamp: entry.Timestamp,
			Stream:    entry.Stream,
			Message:   entry.Message,
		})
		if update, ok := ev.(parse.PuzzleUpdate); ok {
			m.recorder.RecordPuzzle(storage.PuzzleEvent{
				PuzzleID:  update.ID,
				State:     update.State.String(),
				IP:        update.IP,
				Timestamp: update.Timestamp,
			})
		}
	}
}

// refreshSnapshot pulls a fresh state snapshot and re-renders the log
// viewport content
func (m *Model) refreshSnapshot() {
	m.snapshot = m.state.Snapshot(time.Now())
	if !m.logViewReady {
		return
	}
	m.logView.SetContent(renderLogLines(m.snapshot.Logs, m.logView.Width))
	if m.logsAutoScroll {
		m.logView.GotoBottom()
	}
}

// resizeLogView (re)creates the log viewport to fit the current window
func (m *Model) resizeLogView() {
	w, h := m.logViewSize()
	if !m.logViewReady {
		m.logView = viewport.New(w, h)
		m.logViewReady = true
		return
	}
	m.logView.Width = w
	m.logView.Height = h
}
