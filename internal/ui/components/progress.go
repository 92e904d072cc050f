package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// eighths are the partial block glyphs, from one eighth to seven eighths.
var eighths = []rune("▏▎▍▌▋▊▉")

// Meter is a horizontal bar drawn with eighth-block precision, so a
// countdown visibly moves even when it is narrow.
type Meter struct {
	// Fraction in [0, 1]. Values outside are clamped.
	Fraction float64
	Width    int

	// Below LowAt the bar switches to the warning colour. Zero disables it.
	LowAt float64
}

func (m Meter) View() string {
	width := max(m.Width, 1)
	frac := min(max(m.Fraction, 0), 1)

	units := int(frac * float64(width*8))
	full, part := units/8, units%8

	var bar strings.Builder
	bar.WriteString(strings.Repeat("█", full))
	cells := full
	if part > 0 && cells < width {
		bar.WriteRune(eighths[part-1])
		cells++
	}

	fill := theme.Secondary
	if m.LowAt > 0 && frac < m.LowAt {
		fill = theme.Error
	}
	track := lipgloss.NewStyle().Background(theme.BgCard)
	return track.Foreground(fill).Render(bar.String()) +
		track.Render(strings.Repeat(" ", width-cells))
}
