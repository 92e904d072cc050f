// Package app hosts the terminal UI: a router of screens around the game.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/screens/history"
	"github.com/fol2/mathsquiz/internal/screens/home"
	sessionscreen "github.com/fol2/mathsquiz/internal/screens/session"
	"github.com/fol2/mathsquiz/internal/screens/setup"
	"github.com/fol2/mathsquiz/internal/screens/welcome"
	"github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/store"
	"github.com/fol2/mathsquiz/internal/supply"
	"github.com/fol2/mathsquiz/internal/ui/layout"
)

// Options carries the collaborators the screens need.
type Options struct {
	Game     *session.Game
	Supplier *supply.Supplier
	Progress store.ProgressRepo

	// Games lists finished games for the history screen. Optional.
	Games history.GameLister

	// Provider names the LLM provider on the setup screen.
	Provider string

	// SaveKey persists a key accepted on the setup screen. Optional.
	SaveKey func(key string) error

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	logger *zap.Logger
	width  int
	height int
}

// newAppModel builds the screen graph: splash, then setup when the game
// is waiting for a credential, then home.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("app")

	game := opts.Game
	setupScreen := func(next func() screen.Screen) screen.Screen {
		return setup.New(opts.Supplier, setup.Config{
			Provider: opts.Provider,
			Save:     opts.SaveKey,
			Complete: func() {
				if game.State() == session.StateCredentialSetup {
					if err := game.CompleteSetup(); err != nil {
						logger.Warn("complete setup", zap.Error(err))
					}
				}
			},
			Next: next,
		})
	}

	homeCfg := home.Config{
		Progress:      opts.Progress,
		HasCredential: opts.Supplier.HasValidCredential,
		Play: func() screen.Screen {
			return sessionscreen.New(game, opts.Supplier)
		},
		Setup: func() screen.Screen { return setupScreen(nil) },
	}
	if opts.Games != nil {
		homeCfg.History = func() screen.Screen { return history.New(opts.Games) }
	}
	homeScreen := func() screen.Screen { return home.New(homeCfg) }

	next := homeScreen
	if game.State() == session.StateCredentialSetup {
		next = func() screen.Screen { return setupScreen(homeScreen) }
	}

	return AppModel{
		router: router.New(welcome.New(next)),
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

var (
	backHints = []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
)

// chrome renders the header and footer for the active screen.
func (m AppModel) chrome() (header, footer string) {
	var (
		title string
		stats layout.HeaderStats
		hints = rootHints
	)
	if m.router.Depth() > 1 {
		hints = backHints
	}
	if active := m.router.Active(); active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatsProvider); ok {
			stats = sp.HeaderStats()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			hints = kp.KeyHints()
		}
	}
	return layout.RenderHeader(title, stats, m.width), layout.RenderFooter(hints, m.width)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		header, footer := m.chrome()
		body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
		v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	}
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		m.logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
