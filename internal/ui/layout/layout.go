// Package layout draws the chrome around screens: header, footer and the
// too-small notice.
package layout

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

const (
	MinWidth  = 64
	MinHeight = 20

	HeaderHeight = 3
	FooterHeight = 3

	// Below this height the home screen drops the mascot.
	CompactHeight = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small\n\nneeds %d×%d, have %d×%d", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Warning).Align(lipgloss.Center).Render(body))
}

// HeaderStats is the game status on the right of the header. The zero
// value shows nothing.
type HeaderStats struct {
	Visible   bool
	Level     int
	LevelName string
	Score     int
}

func (s HeaderStats) render() string {
	if !s.Visible {
		return ""
	}
	level := lipgloss.NewStyle().Foreground(theme.ForLevel(s.Level)).
		Render(fmt.Sprintf("Lv %d %s", s.Level, s.LevelName))
	score := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d", s.Score))
	return level + "   " + score
}

// bar is the rounded strip used for both header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader puts the app name on the left, title in the centre and stats
// on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	inner := max(width-4, 0)
	third := inner / 3

	left := lipgloss.NewStyle().Width(third).Foreground(theme.Primary).Bold(true).Render("MathsQuiz")
	right := stats.render()
	mid := lipgloss.NewStyle().
		Width(max(inner-third-lipgloss.Width(right), 0)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(title)

	return bar(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right))
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Timer formats a countdown as m:ss.
func Timer(d time.Duration) string {
	secs := int(max(d, 0).Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
