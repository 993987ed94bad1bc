package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/warrior/internal/workout"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#FF6B35")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.Color("#E63946")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Clock
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

var phaseColors = map[workout.Phase]lipgloss.Color{
	workout.PhaseIdle:      colorMuted,
	workout.PhasePrepare:   colorWarning,
	workout.PhaseActive:    colorAccent,
	workout.PhaseRest:      colorSuccess,
	workout.PhasePaused:    colorWarning,
	workout.PhaseCompleted: colorHighlight,
}

// phaseStyle colors text by session phase.
func phaseStyle(p workout.Phase) lipgloss.Style {
	c, ok := phaseColors[p]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// phaseGradient returns the progress bar colors for a phase.
func phaseGradient(p workout.Phase) (string, string) {
	switch p {
	case workout.PhaseActive:
		return string(colorPrimary), string(colorAccent)
	case workout.PhaseRest:
		return string(colorSecondary), string(colorSuccess)
	default:
		return string(colorWarning), string(colorPrimary)
	}
}
