package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/store"
	"github.com/fol2/mathsquiz/internal/ui/layout"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// recentLimit is how many games the screen lists.
const recentLimit = 50

// GameLister reads finished games, newest first.
type GameLister interface {
	RecentGames(ctx context.Context, opts store.QueryOpts) ([]store.GameRecord, error)
}

type historyLoadedMsg struct {
	Games []store.GameRecord
	Err   error
}

// HistoryScreen lists past games, newest first. Enter opens the detail
// line of the highlighted game.
type HistoryScreen struct {
	games   GameLister
	records []store.GameRecord
	cursor  int
	open    int // index of the expanded game, or -1
	loaded  bool
	err     error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(games GameLister) *HistoryScreen {
	return &HistoryScreen{games: games, open: -1}
}

func (s *HistoryScreen) Init() tea.Cmd {
	games := s.games
	return func() tea.Msg {
		records, err := games.RecentGames(context.Background(), store.QueryOpts{Limit: recentLimit})
		return historyLoadedMsg{Games: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.records, s.err, s.loaded = msg.Games, msg.Err, true

	case tea.KeyPressMsg:
		last := len(s.records) - 1
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = max(min(s.cursor+1, last), 0)
		case "home", "g":
			s.cursor = 0
		case "end", "G":
			s.cursor = max(last, 0)
		case "enter":
			if s.open == s.cursor {
				s.open = -1
			} else {
				s.open = s.cursor
			}
		}
	}
	return s, nil
}

func summaryLine(g store.GameRecord) string {
	return fmt.Sprintf("%s  score %4d  level %d→%d  %d/%d correct",
		g.Timestamp.Local().Format("Jan 02 15:04"), g.Score,
		g.StartLevel, g.FinalLevel, g.Correct, g.Attempted)
}

func detailLine(g store.GameRecord) string {
	parts := []string{
		"reached " + problemgen.Level(g.FinalLevel).Name(),
		g.AvgAnswerTime.Round(100*time.Millisecond).String() + " per question",
	}
	if g.Degraded > 0 {
		parts = append(parts, fmt.Sprintf("%d practice", g.Degraded))
	}
	return strings.Join(parts, " · ")
}

// window picks the slice of rows that fits in height with the cursor
// visible.
func window(n, cursor, height int) (from, to int) {
	height = max(height, 1)
	if n <= height {
		return 0, n
	}
	from = min(max(cursor-height/2, 0), n-height)
	return from, from + height
}

func (s *HistoryScreen) View(width, height int) string {
	var body string
	switch {
	case s.err != nil:
		body = lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.err.Error())
	case !s.loaded:
		body = theme.Hint.Render("Loading history...")
	case len(s.records) == 0:
		body = theme.Hint.Render("No games yet. Go play one!")
	}
	if body != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	}

	// Reserve a line for the open game's detail.
	from, to := window(len(s.records), s.cursor, height-2)
	rows := make([]string, 0, to-from+1)
	for i := from; i < to; i++ {
		g := s.records[i]
		if i == s.cursor {
			rows = append(rows, theme.Selected.Render("> "+summaryLine(g)))
		} else {
			rows = append(rows, theme.Unselected.Render("  "+summaryLine(g)))
		}
		if i == s.open {
			rows = append(rows, theme.Hint.Render("    "+detailLine(g)))
		}
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		"\n"+lipgloss.JoinVertical(lipgloss.Left, rows...))
}
