package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors so the browser reads on both light and dark terminals.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "125", Dark: "205"}
	colorText      = lipgloss.AdaptiveColor{Light: "232", Dark: "252"}
	colorTextMuted = lipgloss.AdaptiveColor{Light: "240", Dark: "244"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "248", Dark: "238"}
	colorError     = lipgloss.AdaptiveColor{Light: "160", Dark: "9"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 2).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	folderLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText)
)
