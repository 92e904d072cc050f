package summary

import (
	"fmt"
	"image/color"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/layout"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// SummaryScreen shows the result of a finished game.
type SummaryScreen struct {
	summary    *session.Summary
	persistErr error
	menu       components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. persistErr is the error, if any, from
// saving the result; playAgain builds the screen for a new game.
func New(summary *session.Summary, persistErr error, playAgain func() screen.Screen) *SummaryScreen {
	items := []components.MenuItem{
		{Label: "PLAY AGAIN", Disabled: playAgain == nil, Action: func() tea.Cmd {
			return router.Replace(playAgain())
		}},
		{Label: "HOME", Action: router.PopToRoot},
	}
	return &SummaryScreen{
		summary:    summary,
		persistErr: persistErr,
		menu:       components.NewMenu(items),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Game Over"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "esc" {
		return s, router.PopToRoot()
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// NewHighScore reports whether the game set (or tied) the lifetime best.
func (s *SummaryScreen) NewHighScore() bool {
	sum := s.summary
	return sum != nil && sum.Progress != nil && sum.Score > 0 && sum.Score >= sum.Progress.HighScore
}

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// lines renders the result block, one entry per line; "" is a spacer.
func (s *SummaryScreen) lines() []string {
	sum := s.summary
	out := []string{
		fg(theme.Primary).Bold(true).Render("Game over!"),
		"",
		fg(theme.Gold).Bold(true).Render(fmt.Sprintf("Score %d", sum.Score)),
	}
	if s.NewHighScore() {
		out = append(out, fg(theme.Accent).Render("★ New high score! ★"))
	}
	out = append(out, "",
		fmt.Sprintf("Correct: %d/%d        Accuracy: %.0f%%        Level: %d → %d",
			sum.Correct, sum.Attempted, sum.Accuracy()*100, int(sum.StartLevel), int(sum.FinalLevel)),
		fg(theme.TextDim).Render(fmt.Sprintf("Reached %s · %s per question · %s total",
			sum.FinalLevel.Name(), sum.AvgAnswerTime.Round(100*time.Millisecond), layout.Timer(sum.Duration))),
	)
	if sum.Degraded > 0 {
		out = append(out, theme.Notice.Render(
			fmt.Sprintf("%d practice question(s) did not count toward the score", sum.Degraded)))
	}
	if p := sum.Progress; p != nil {
		out = append(out, "", fg(theme.TextDim).Render(
			fmt.Sprintf("Best %d · Best level %d · %d games played", p.HighScore, p.BestLevel, p.GamesPlayed)))
	}
	if s.persistErr != nil {
		out = append(out, "", fg(theme.Error).Render("Progress was not saved: "+s.persistErr.Error()))
	}
	return append(out, "", s.menu.View())
}

func (s *SummaryScreen) View(width, height int) string {
	if s.summary == nil {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		"\n"+lipgloss.JoinVertical(lipgloss.Center, s.lines()...))
}
