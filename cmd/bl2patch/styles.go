package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/bl2patch/exe/state"
)

var (
	// Color palette
	secondaryColor = lipgloss.Color("#00D7FF")
	successColor   = lipgloss.Color("#04B575")
	warningColor   = lipgloss.Color("#FFA500")
	errorColor     = lipgloss.Color("#FF4B4B")
	mutedColor     = lipgloss.Color("#666666")

	successStyle  = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	pristineStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

// styled renders text with s unless color is disabled.
func styled(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}

// kindStyle picks the style for a state kind.
func kindStyle(k state.Kind) lipgloss.Style {
	switch k {
	case state.Patched:
		return successStyle
	case state.Unpatched:
		return pristineStyle
	case state.Corrupted:
		return errorStyle
	default:
		return warningStyle
	}
}
