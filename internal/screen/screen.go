// Package screen defines what the router stacks. Besides Screen itself a
// screen may implement any of the small optional interfaces below; the app
// model checks for them when drawing the chrome and routing Esc.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/ui/layout"
)

type Screen interface {
	// Init runs whenever the screen becomes active, including when a
	// screen above it is popped.
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View draws the area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatsProvider fills the right side of the header.
type StatsProvider interface {
	HeaderStats() layout.HeaderStats
}

// EscHandler screens receive Esc as a normal key while HandlesEsc is true,
// instead of being popped.
type EscHandler interface {
	HandlesEsc() bool
}
