package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roommon/internal/model"
)

var (
	// Log level patterns
	errorPattern   = regexp.MustCompile(`(?i)\b(error|err|fatal|fail|failed|exception|panic|traceback)\b`)
	warningPattern = regexp.MustCompile(`(?i)\b(warn|warning|caution)\b`)
	infoPattern    = regexp.MustCompile(`(?i)\b(info|information)\b`)
	debugPattern   = regexp.MustCompile(`(?i)\b(debug|trace)\b`)

	// Pattern highlighting
	ipPattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

	// Styles for log levels
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim gray

	errorLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")) // Red
	warningLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")) // Orange
	infoLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")) // Blue
	debugLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim
	defaultLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")) // Normal

	// Stream indicators
	stdoutIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Render("○") // Green circle
	stderrIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Render("●") // Red circle
	noticeIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7")).Render("◆") // Dashboard notice

	stderrTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)

	// Highlight styles
	ipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")) // Yellow
)

// renderLogLines renders the buffered log window for the viewport,
// oldest first
func renderLogLines(entries []model.LogEntry, maxWidth int) string {
	if len(entries) == 0 {
		return debugLogStyle.Render("No output yet...")
	}

	var s strings.Builder
	for i, entry := range entries {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(styleLogEntry(entry, maxWidth))
	}
	return s.String()
}

// styleLogEntry applies styling to a single log entry
func styleLogEntry(entry model.LogEntry, maxWidth int) string {
	// Format timestamp (dimmed)
	timestamp := timestampStyle.Render(entry.Timestamp.Format("15:04:05"))

	// Stream indicator and optional stderr tag
	streamIndicator := stdoutIndicator
	prefix := ""
	switch entry.Stream {
	case "stderr":
		streamIndicator = stderrIndicator
		prefix = stderrTagStyle.Render("[STDERR]") + " "
	case "roommon":
		streamIndicator = noticeIndicator
	}

	// Style the message based on detected log level
	message := entry.Message
	var styledMessage string
	switch {
	case errorPattern.MatchString(message):
		styledMessage = styleMessage(message, errorLogStyle)
	case warningPattern.MatchString(message):
		styledMessage = styleMessage(message, warningLogStyle)
	case infoPattern.MatchString(message):
		styledMessage = styleMessage(message, infoLogStyle)
	case debugPattern.MatchString(message):
		styledMessage = styleMessage(message, debugLogStyle)
	default:
		styledMessage = styleMessage(message, defaultLogStyle)
	}

	logLine := timestamp + " " + streamIndicator + " " + prefix + styledMessage

	// Truncate if needed (accounting for ANSI codes)
	if lipgloss.Width(logLine) > maxWidth {
		overhead := lipgloss.Width(timestamp) + lipgloss.Width(streamIndicator) + lipgloss.Width(prefix) + 5
		keepLength := maxWidth - overhead
		if keepLength > 0 {
			styledMessage = truncateStyled(styledMessage, keepLength)
			logLine = timestamp + " " + streamIndicator + " " + prefix + styledMessage + "..."
		}
	}

	return logLine
}

// styleMessage applies the base style and highlights addresses
func styleMessage(message string, baseStyle lipgloss.Style) string {
	result := ipPattern.ReplaceAllStringFunc(message, func(match string) string {
		return ipStyle.Render(match)
	})
	return baseStyle.Render(result)
}

// truncateStyled truncates a styled string to a maximum visible width
func truncateStyled(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	// Simple truncation - not perfect with ANSI codes but good enough here
	runes := []rune(s)
	if len(runes) > maxWidth {
		return string(runes[:maxWidth])
	}
	return s
}
