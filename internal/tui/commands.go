package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"roommon/internal/hostinfo"
	"roommon/internal/script"
)

// tickCmd creates a command that sends a tick message on the configured
// refresh interval
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// attachStream spawns the script and hands its channels to the update loop
func attachStream(runner script.Runner) tea.Cmd {
	return func() tea.Msg {
		lines, errs, cancel := runner.Stream()
		return attachedMsg{lines: lines, errs: errs, cancel: cancel}
	}
}

// reattachStream waits out the restart backoff, then spawns the script
// again. The sleep happens inside the command, off the render path.
func reattachStream(runner script.Runner, backoff time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(backoff)
		lines, errs, cancel := runner.Stream()
		return attachedMsg{lines: lines, errs: errs, cancel: cancel}
	}
}

// waitForLine creates a command that waits for the next output line.
// A closed line channel falls through to the error channel so stream
// termination surfaces exactly once.
func waitForLine(lines <-chan script.Line, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case line, ok := <-lines:
			if !ok {
				if err := <-errs; err != nil {
					return streamErrMsg{err: err}
				}
				return nil
			}
			return lineMsg(line)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return streamErrMsg{err: err}
		}
	}
}

// sampleHost collects host metrics for the header
func sampleHost() tea.Cmd {
	return func() tea.Msg {
		return hostStatsMsg(hostinfo.Sample())
	}
}
