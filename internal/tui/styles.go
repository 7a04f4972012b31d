package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))

	headerOnlineStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(lipgloss.Color("#A6E3A1"))

	headerStartingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(lipgloss.Color("#F9E2AF"))

	headerDownStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(lipgloss.Color("#F38BA8"))

	columnHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(lipgloss.Color("#CBA6F7"))

	stateActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))

	stateSolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))

	stateErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))

	stateIdleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))

	staleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Italic(true)

	clientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89DCEB"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")).Padding(1, 0)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#585B70")).
		Padding(1, 2)
)
