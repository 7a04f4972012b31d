package tui

import "time"

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// formatDuration renders an uptime with second resolution
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}

// headerHeight is the banner line plus its spacing
const headerHeight = 2

// layout splits the space under the header: 60% for the puzzle/client
// row, the rest for the log panel
func (m Model) layout() (topHeight, bottomHeight int) {
	remaining := m.height - headerHeight
	if remaining < 2 {
		remaining = 2
	}
	topHeight = int(float64(remaining) * 0.6)
	bottomHeight = remaining - topHeight
	return topHeight, bottomHeight
}

// logViewSize returns the inner dimensions available to the log viewport
// inside its panel. Must track the chrome used in renderLogPanel.
func (m Model) logViewSize() (width, height int) {
	_, bottomHeight := m.layout()

	// Panel border and padding, plus title and footer lines
	width = m.width - 10
	if width < 20 {
		width = 20
	}
	height = bottomHeight - 8
	if height < 3 {
		height = 3
	}
	return width, height
}
