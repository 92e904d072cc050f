// Package welcome is the splash screen shown at launch.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/theme"
)

const frameInterval = 100 * time.Millisecond

// The splash plays in stages, counted in frames.
type stage int

const (
	stageMascot  stage = iota // mascot alone
	stageSparkle              // mascot with twinkling sparkles
	stageBanner               // banner and tagline revealed
)

const (
	sparkleAt   = 3
	bannerAt    = 10
	splashUntil = 25
)

var sparkles = [2]string{"★", "✦"}

type frameMsg struct{}

// WelcomeScreen plays the splash, then replaces itself with next().
// Any key skips ahead.
type WelcomeScreen struct {
	next   func() screen.Screen
	frames int
	done   bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) stage() stage {
	switch {
	case w.frames >= bannerAt:
		return stageBanner
	case w.frames >= sparkleAt:
		return stageSparkle
	}
	return stageMascot
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		if w.frames++; w.frames >= splashUntil {
			return w, w.finish()
		}
		return w, nextFrame()
	case tea.KeyPressMsg:
		return w, w.finish()
	}
	return w, nil
}

func (w *WelcomeScreen) finish() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	return router.Replace(w.next())
}

// twinkle flanks the first and third mascot lines with sparkles that swap
// colour every frame.
func twinkle(mascot string, frame int) string {
	glyph := sparkles[frame%len(sparkles)]
	a := lipgloss.NewStyle().Foreground(theme.Accent).Render(glyph)
	b := lipgloss.NewStyle().Foreground(theme.Secondary).Render(glyph)

	lines := strings.Split(mascot, "\n")
	for i, pair := range [][2]string{{a, b}, {}, {b, a}} {
		if i < len(lines) && pair[0] != "" {
			lines[i] = pair[0] + "  " + lines[i] + "  " + pair[1]
		}
	}
	return strings.Join(lines, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	mascot := components.Mascot(components.MascotIdle)
	st := w.stage()
	if st >= stageSparkle {
		mascot = twinkle(mascot, w.frames)
	}

	parts := []string{mascot}
	if st == stageBanner {
		parts = append(parts,
			RenderBanner(width),
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Ten questions. Three in a row to level up."),
			theme.Hint.Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(parts, "\n\n"))
}
