package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/sim"
)

func TestStyles(t *testing.T) {
	// Force color profile for testing
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	out := StyleSuccess.Render("Test")
	assert.Contains(t, out, "Test")
	assert.NotEqual(t, "Test", out, "Style should add ANSI codes when forced")
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, StyleSuccess.GetForeground(), StatusStyle(true, false).GetForeground())
	assert.Equal(t, StyleSubtle.GetForeground(), StatusStyle(false, true).GetForeground())
	assert.Equal(t, StyleText.GetForeground(), StatusStyle(false, false).GetForeground())
}

func TestZoneBackground(t *testing.T) {
	assert.Equal(t, lipgloss.Color(sim.ColorZoneBlocked), zoneBackground(sim.ZoneBlocked, false))
	assert.Equal(t, lipgloss.Color(colorHighlightBlocked), zoneBackground(sim.ZoneBlocked, true))

	assert.True(t, zoneLit(sim.ZoneComplete, gesture.Highlight{Complete: true}))
	assert.False(t, zoneLit(sim.ZoneAvailable, gesture.Highlight{Complete: true}))
}
