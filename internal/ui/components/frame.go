package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// ContentWidth is the inner width framed screens lay their boxes out in:
// the frame minus border and padding, kept between 20 and 60 columns.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func box(border lipgloss.Border, fg color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(border).BorderForeground(fg)
}

// Frame centres content inside a double border filling width x height.
func Frame(content string, width, height int) string {
	return box(lipgloss.DoubleBorder(), theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card boxes content at content width cw.
func Card(content string, cw int) string {
	return box(lipgloss.RoundedBorder(), theme.Border).
		Width(cw-2).
		Padding(0, 1).
		Align(lipgloss.Center).
		Render(content)
}
