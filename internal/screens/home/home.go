package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/store"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/layout"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// ProgressLoader reads lifetime progress.
type ProgressLoader interface {
	Load(ctx context.Context) (store.Progress, error)
}

// Config wires the home screen to the rest of the app. Nil screen
// factories disable the matching menu item.
type Config struct {
	Progress      ProgressLoader
	HasCredential func() bool
	Play          func() screen.Screen
	History       func() screen.Screen
	Setup         func() screen.Screen
}

type progressLoadedMsg struct {
	progress store.Progress
	err      error
}

// HomeScreen is the start screen: lifetime stats and the main menu.
type HomeScreen struct {
	config   Config
	menu     components.Menu
	progress *store.Progress
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(cfg Config) *HomeScreen {
	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return router.Push(factory())
		}
	}

	items := []components.MenuItem{
		{Label: "START GAME", Disabled: cfg.Play == nil},
		{Label: "HISTORY", Disabled: cfg.History == nil},
		{Label: "API KEY", Disabled: cfg.Setup == nil},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	if cfg.Play != nil {
		items[0].Action = push(cfg.Play)
	}
	if cfg.History != nil {
		items[1].Action = push(cfg.History)
	}
	if cfg.Setup != nil {
		items[2].Action = push(cfg.Setup)
	}

	return &HomeScreen{
		config: cfg,
		menu:   components.NewMenu(items),
	}
}

// Init reloads progress; it runs again whenever a screen above is popped.
func (h *HomeScreen) Init() tea.Cmd {
	if h.config.Progress == nil {
		return nil
	}
	repo := h.config.Progress
	return func() tea.Msg {
		p, err := repo.Load(context.Background())
		return progressLoadedMsg{progress: p, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(progressLoadedMsg); ok {
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.progress = &msg.progress
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) practiceMode() bool {
	return h.config.HasCredential != nil && !h.config.HasCredential()
}

func (h *HomeScreen) View(width, height int) string {
	compact := height+layout.HeaderHeight+layout.FooterHeight < layout.CompactHeight
	cw := components.ContentWidth(width)

	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(title.Render("M A T H S Q U I Z")))

	if !compact {
		mood := components.MascotIdle
		if h.practiceMode() {
			mood = components.MascotWorried
		}
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(components.Mascot(mood)))
	}

	sections = append(sections, h.renderStats(cw))

	if h.practiceMode() {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Notice.Render("⚠ No API key: practice questions only")))
	}

	sections = append(sections, h.menu.Buttons(cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderStats(cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if h.errMsg != "" {
		return components.Card(lipgloss.NewStyle().Foreground(theme.Error).
			Render("Could not load progress: "+h.errMsg), cw)
	}
	if h.progress == nil {
		return components.Card(dim.Render("Loading progress..."), cw)
	}

	p := h.progress
	if p.GamesPlayed == 0 {
		return components.Card(dim.Render("No games yet. Ten questions await!"), cw)
	}

	gold := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	cyan := lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true)
	stats := fmt.Sprintf("%s  %s  %s\n%s",
		gold.Render(fmt.Sprintf("★ BEST %d", p.HighScore)),
		cyan.Render(fmt.Sprintf("▲ LEVEL %d", p.BestLevel)),
		dim.Render(fmt.Sprintf("%d GAMES", p.GamesPlayed)),
		dim.Render(fmt.Sprintf("%d correct in total · avg %s per question",
			p.TotalCorrect, p.AverageTime.Round(100*time.Millisecond))),
	)
	return components.Card(stats, cw)
}
