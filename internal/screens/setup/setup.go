// Package setup is the API key entry screen.
package setup

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/layout"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// Credentials checks and installs an API key.
type Credentials interface {
	ValidateCredential(ctx context.Context, candidate string) bool
	SetCredential(ctx context.Context, token string) error
}

// Config wires the screen to the rest of the app.
type Config struct {
	// Provider is the provider name shown to the player.
	Provider string

	// Save persists an accepted key. Optional.
	Save func(key string) error

	// Complete is called once the player leaves the screen, with or
	// without a key.
	Complete func()

	// Next builds the screen that replaces this one. When nil the screen
	// pops itself instead.
	Next func() screen.Screen
}

type validatedMsg struct {
	ok      bool
	err     error
	saveErr error
}

// SetupScreen asks for an API key and validates it before play.
type SetupScreen struct {
	creds      Credentials
	config     Config
	input      components.TextInput
	validating bool
	accepted   bool // key installed but not saved
	errMsg     string
	done       bool
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen.
func New(creds Credentials, cfg Config) *SetupScreen {
	return &SetupScreen{
		creds:  creds,
		config: cfg,
		input:  components.NewSecretInput("paste your API key", 256),
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SetupScreen) Title() string {
	return "API Key"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.validating {
		return []layout.KeyHint{{Key: "…", Description: "Checking key"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Check key"},
		{Key: "Tab", Description: "Practice without a key"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case validatedMsg:
		s.validating = false
		switch {
		case msg.err != nil:
			s.errMsg = fmt.Sprintf("The key was accepted but could not be installed: %v", msg.err)
			return s, nil
		case !msg.ok:
			s.errMsg = "That key didn't work. Check it and try again."
			return s, nil
		case msg.saveErr != nil:
			s.accepted = true
			s.errMsg = fmt.Sprintf("Key works, but saving it failed (%v). It will be used this session. Press Enter.", msg.saveErr)
			return s, nil
		}
		return s, s.finish()

	case tea.KeyPressMsg:
		if s.validating {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			if s.accepted {
				return s, s.finish()
			}
			return s, s.validate()
		case "tab":
			return s, s.finish()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SetupScreen) validate() tea.Cmd {
	key := strings.TrimSpace(s.input.Value())
	if key == "" {
		s.errMsg = "Enter a key, or press Tab to practice without one."
		return nil
	}
	s.errMsg = ""
	s.validating = true

	creds, save := s.creds, s.config.Save
	return func() tea.Msg {
		ctx := context.Background()
		if !creds.ValidateCredential(ctx, key) {
			return validatedMsg{}
		}
		if err := creds.SetCredential(ctx, key); err != nil {
			return validatedMsg{ok: true, err: err}
		}
		msg := validatedMsg{ok: true}
		if save != nil {
			msg.saveErr = save(key)
		}
		return msg
	}
}

func (s *SetupScreen) finish() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	if s.config.Complete != nil {
		s.config.Complete()
	}
	if s.config.Next == nil {
		return router.Pop()
	}
	return router.Replace(s.config.Next())
}

func (s *SetupScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	provider := s.config.Provider
	if provider == "" {
		provider = "your provider"
	}

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Connect a question generator"))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Text).Render(
		fmt.Sprintf("Questions are written by %s. Paste an API key to play for points.", provider)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(
		"The key is only sent to the provider and saved in your config file."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card("Key: "+s.input.View(), components.ContentWidth(width))))
	b.WriteString("\n\n")

	switch {
	case s.validating:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Checking key..."))
	case s.errMsg != "":
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	default:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render(
			"Without a key you get practice questions that don't score."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
