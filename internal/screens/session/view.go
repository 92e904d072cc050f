package session

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/batchcache"
	"github.com/fol2/mathsquiz/internal/problemgen"
	sess "github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/layout"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", s.errMsg))
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if s.game.State() == sess.StateLevelUp {
		return s.renderLevelUp(width, height)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	p := s.game.Current()
	switch {
	case p == nil:
		b.WriteString(center.Foreground(theme.TextDim).Render("Fetching a question..."))
	default:
		b.WriteString(center.Foreground(theme.Text).Bold(true).Render(p.Text))
		b.WriteString("\n")
		if p.Degraded() && p.Notice != "" {
			b.WriteString(center.Render(theme.Notice.Render(p.Notice)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(center.Render("Answer: " + s.input.View()))
		if s.game.Phase() == sess.PhaseFeedback {
			b.WriteString("\n\n")
			b.WriteString(s.renderFeedback(width))
		}
	}

	if s.showCache {
		b.WriteString("\n\n")
		b.WriteString(s.renderCacheLine(width))
	}

	return b.String()
}

func (s *SessionScreen) renderInfoLine(width int) string {
	g := s.game

	question := g.Attempted()
	if g.Current() == nil {
		question++
	}
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", min(question, g.TotalQuestions()), g.TotalQuestions()))

	right := renderStreak(g.Streak(), g.StreakToLevelUp())
	if p := g.Current(); p != nil && !p.Degraded() {
		total := g.TimeForLevel()
		var frac float64
		if total > 0 {
			frac = float64(g.TimeLeft()) / float64(total)
		}
		bar := components.Meter{Fraction: frac, Width: 16, LowAt: 0.25}
		right += "   " + bar.View() + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(layout.Timer(g.TimeLeft()))
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderStreak shows progress towards the next level as filled dots.
func renderStreak(streak, target int) string {
	on := lipgloss.NewStyle().Foreground(theme.Accent)
	off := lipgloss.NewStyle().Foreground(theme.Border)
	var b strings.Builder
	for i := 0; i < target; i++ {
		if i < streak {
			b.WriteString(on.Render("●"))
		} else {
			b.WriteString(off.Render("○"))
		}
	}
	return b.String()
}

func (s *SessionScreen) renderFeedback(width int) string {
	res := s.game.LastResult()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var style lipgloss.Style
	switch res.Outcome {
	case sess.OutcomeCorrect, sess.OutcomeLevelUp:
		style = theme.Correct
	case sess.OutcomeDegraded:
		style = theme.Notice
	default:
		style = theme.Incorrect
	}

	var b strings.Builder
	b.WriteString(center.Render(style.Render(res.Message)))
	if res.Points > 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Accent).Render(fmt.Sprintf("+%d points", res.Points)))
	}
	if !res.Outcome.Correct() {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("Answer: " + FormatAnswer(res.Answer)))
	}
	return b.String()
}

func (s *SessionScreen) renderLevelUp(width, height int) string {
	level := s.game.Level()
	body := strings.Join([]string{
		components.Mascot(components.MascotCelebrating),
		"",
		lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("LEVEL UP!"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(s.game.LastResult().Message),
		"",
		lipgloss.NewStyle().Foreground(theme.ForLevel(int(level))).Bold(true).
			Render(fmt.Sprintf("Level %d · %s", int(level), level.Name())),
		lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%s per question", layout.Timer(s.game.TimeForLevel()))),
		"",
		theme.Hint.Render("press Enter to continue"),
	}, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Modal.Render(body))
}

func (s *SessionScreen) renderCacheLine(width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.cache == nil {
		return dim.Render("  cache: n/a")
	}
	return lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).
		Render("  cache: " + FormatSnapshot(s.cache.Snapshot()))
}

// FormatSnapshot renders a cache snapshot as "L1 3 ready 12s · L2 refilling".
func FormatSnapshot(snap map[problemgen.Level]batchcache.SlotInfo) string {
	if len(snap) == 0 {
		return "empty"
	}
	levels := make([]problemgen.Level, 0, len(snap))
	for l := range snap {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		info := snap[l]
		part := fmt.Sprintf("L%d %d ready", int(l), info.Ready)
		if info.Ready > 0 {
			part += " " + layout.Timer(info.Age)
		}
		if info.Refilling {
			part += " refilling"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " · ")
}

// FormatAnswer prints an answer without trailing zeros.
func FormatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Quit this game?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Games you don't finish are not recorded."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Error).Render("[Y] Yes, quit"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep playing"))
	return b.String()
}
