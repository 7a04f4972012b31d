package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"roommon/internal/model"
)

// renderHeader renders the status banner across the top. Its background
// color tracks the session state: green once the script reports ready,
// yellow while starting, red when the stream is lost.
func (m Model) renderHeader() string {
	status, style := m.statusBanner()

	uptime := "-"
	if !m.snapshot.Server.StartTime.IsZero() {
		uptime = formatDuration(m.snapshot.Server.Uptime(time.Now()))
	}

	ram := "-"
	if m.hostStats.MemoryTotal > 0 {
		ram = fmt.Sprintf("%s/%s", humanize.IBytes(m.hostStats.MemoryUsed), humanize.IBytes(m.hostStats.MemoryTotal))
	}

	hostname := m.snapshot.Server.Hostname
	if hostname == "" {
		hostname = "-"
	}
	ip := m.snapshot.Server.IP
	if ip == "" {
		ip = "-"
	}

	info := fmt.Sprintf(" Host: %s │ IP: %s │ Uptime: %s │ CPU: %.1f%% │ RAM: %s │ Script: %s ",
		hostname, ip, uptime, m.hostStats.CPUPercent, ram, status)

	return style.
		Width(m.width).
		Align(lipgloss.Center).
		Render(truncate(info, m.width))
}

// statusBanner maps the refresh loop phase and script readiness to the
// header text and style
func (m Model) statusBanner() (string, lipgloss.Style) {
	switch m.phase {
	case phaseDisconnected:
		return "DISCONNECTED", headerDownStyle
	case phaseReconnecting:
		return fmt.Sprintf("RECONNECTING %d/%d", m.reconnectAttempt, m.cfg.Restart.MaxAttempts), headerDownStyle
	case phaseRunning:
		if m.snapshot.ServerReady {
			return "ONLINE", headerOnlineStyle
		}
		return "RUNNING", headerOnlineStyle
	case phaseTerminated:
		return "TERMINATED", headerDownStyle
	default:
		return "STARTING", headerStartingStyle
	}
}

// renderPuzzlePanel renders the puzzle status list
func (m Model) renderPuzzlePanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("🧩 Puzzles (%d)", len(m.snapshot.Puzzles))) + "\n\n")

	if len(m.snapshot.Puzzles) == 0 {
		s.WriteString("No puzzles reported yet...")
	} else {
		colWidth := width - 10
		idWidth := int(float64(colWidth) * 0.35)
		stateWidth := 8
		ipWidth := 16
		ageWidth := colWidth - idWidth - stateWidth - ipWidth
		if ageWidth < 8 {
			ageWidth = 8
		}

		header := fmt.Sprintf("%-*s %-*s %-*s %-*s",
			idWidth, "PUZZLE",
			stateWidth, "STATE",
			ipWidth, "IP",
			ageWidth, "UPDATED")
		s.WriteString(columnHeaderStyle.Render(header) + "\n")

		maxRows := height - 8
		for i, p := range m.snapshot.Puzzles {
			if i >= maxRows {
				s.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.snapshot.Puzzles)-i))
				break
			}
			s.WriteString(m.renderPuzzleRow(p.PuzzleStatus, p.Stale, idWidth, stateWidth, ipWidth, ageWidth))
			s.WriteString("\n")
		}
	}

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}

// renderPuzzleRow formats one puzzle line with a colored state column
func (m Model) renderPuzzleRow(p model.PuzzleStatus, stale bool, idWidth, stateWidth, ipWidth, ageWidth int) string {
	ip := p.IP
	if ip == "" {
		ip = "waiting..."
	}

	age := "never"
	if !p.LastUpdated.IsZero() {
		age = humanize.Time(p.LastUpdated)
	}
	if stale {
		age = staleStyle.Render(age + " (stale)")
	}

	var stateStr string
	switch p.State {
	case model.StateActive:
		stateStr = stateActiveStyle.Render(fmt.Sprintf("%-*s", stateWidth, p.State))
	case model.StateSolved:
		stateStr = stateSolvedStyle.Render(fmt.Sprintf("%-*s", stateWidth, p.State))
	case model.StateError:
		stateStr = stateErrorStyle.Render(fmt.Sprintf("%-*s", stateWidth, p.State))
	default:
		stateStr = stateIdleStyle.Render(fmt.Sprintf("%-*s", stateWidth, p.State))
	}

	return fmt.Sprintf("%-*s %s %-*s %-*s",
		idWidth, truncate(p.ID, idWidth),
		stateStr,
		ipWidth, truncate(ip, ipWidth),
		ageWidth, age)
}

// renderClientsPanel renders the unique client addresses seen so far
func (m Model) renderClientsPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("💻 Clients (%d)", len(m.snapshot.Clients))) + "\n\n")

	if len(m.snapshot.Clients) == 0 {
		s.WriteString("No clients seen yet...")
	} else {
		maxRows := height - 7
		for i, ip := range m.snapshot.Clients {
			if i >= maxRows {
				s.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.snapshot.Clients)-i))
				break
			}
			s.WriteString(clientStyle.Render(ip) + "\n")
		}
	}

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}

// renderLogPanel renders the scrollable script output window
func (m Model) renderLogPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📋 Script Output"))

	if m.logsAutoScroll {
		s.WriteString("  [Auto-scroll: ON]")
	}
	s.WriteString(fmt.Sprintf("  (%d lines this session)", m.snapshot.LogsSeen))
	s.WriteString("\n")
	if m.phase == phaseDisconnected && m.lastErr != nil {
		s.WriteString(stateErrorStyle.Render(fmt.Sprintf("Lost connection: %v", m.lastErr)))
	}
	s.WriteString("\n")

	s.WriteString(m.logView.View())

	help := "\n[↑/↓] scroll  [pgup/pgdn] page  [home/end] jump  [a] auto  [c] clear  [r] restart  [q] quit"
	s.WriteString(helpStyle.Render(help))

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}
