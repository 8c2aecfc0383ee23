package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorEdge      = lipgloss.Color("245")

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)
)

// Zone highlight backgrounds, brighter than the resting zone colours.
const (
	colorHighlightComplete  = "#b4f5b4"
	colorHighlightAvailable = "#ffffff"
	colorHighlightBlocked   = "#e0b4b4"
)

// StatusStyle colours a status label the way nodes are coloured on the board.
func StatusStyle(complete, blocked bool) lipgloss.Style {
	switch {
	case complete:
		return StyleSuccess
	case blocked:
		return StyleSubtle
	default:
		return StyleText
	}
}

func zoneBackground(z sim.Zone, lit bool) lipgloss.Color {
	if !lit {
		return lipgloss.Color(sim.ZoneColor(z))
	}
	switch z {
	case sim.ZoneComplete:
		return lipgloss.Color(colorHighlightComplete)
	case sim.ZoneBlocked:
		return lipgloss.Color(colorHighlightBlocked)
	default:
		return lipgloss.Color(colorHighlightAvailable)
	}
}

// nodeForeground darkens the pale fill colours so glyphs stay readable on
// the light zone backgrounds.
func nodeForeground(n sim.FrameNode) lipgloss.Color {
	switch {
	case n.Status == task.StatusComplete:
		return lipgloss.Color(sim.ColorBorderComplete)
	case n.Blocked:
		return lipgloss.Color(sim.ColorBorderBlocked)
	default:
		return lipgloss.Color("#333")
	}
}
