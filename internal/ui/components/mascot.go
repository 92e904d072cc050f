package components

import (
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// MascotMood selects which mascot art to display.
type MascotMood int

const (
	MascotIdle        MascotMood = iota
	MascotCelebrating            // level up, new high score
	MascotWorried                // practice mode
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotWorried = `┌─────┐
│ ◉ ◉ │ ?
│  ~  │
│ ±×÷ │
└─────┘`

// Mascot returns the mascot art for mood.
func Mascot(mood MascotMood) string {
	art := mascotIdle
	fg := theme.Primary

	switch mood {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotWorried:
		art = mascotWorried
		fg = theme.Warning
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
