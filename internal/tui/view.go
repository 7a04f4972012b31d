package tui

import "github.com/charmbracelet/lipgloss"

// View renders the TUI interface
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting roommon..."
	}

	header := m.renderHeader()

	topHeight, bottomHeight := m.layout()

	// Puzzle and client panels share the middle row
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	puzzlePanel := m.renderPuzzlePanel(leftWidth, topHeight)
	clientsPanel := m.renderClientsPanel(rightWidth, topHeight)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, puzzlePanel, clientsPanel)

	logPanel := m.renderLogPanel(m.width, bottomHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, logPanel)
}
