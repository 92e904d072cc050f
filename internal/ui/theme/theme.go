// Package theme holds the colours and shared styles of the terminal UI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Warning   = lipgloss.Color("#FB923C")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
	Gold      = lipgloss.Color("#FACC15")
	Cyan      = lipgloss.Color("#22D3EE")
)

// bandColors tint levels 1-5, 6-10, 11-15 and 16-20.
var bandColors = [...]color.Color{Cyan, Secondary, Primary, Gold}

// ForLevel is the accent colour of a difficulty level.
func ForLevel(level int) color.Color {
	i := (level - 1) / 5
	return bandColors[min(max(i, 0), len(bandColors)-1)]
}

var (
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Modal frames interstitials such as the level-up card.
	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Gold).
		Padding(1, 4).
		Align(lipgloss.Center)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// Notice marks practice questions and other degraded states.
	Notice = lipgloss.NewStyle().Foreground(Warning).Italic(true)
)
