package session

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/batchcache"
	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/screens/summary"
	sess "github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/ui/components"
	"github.com/fol2/mathsquiz/internal/ui/layout"
)

// loadTimeout bounds how long the screen waits for one problem. The
// supplier falls back to a practice question when it runs out.
const loadTimeout = 60 * time.Second

// CacheInspector exposes the problem cache for the debug line.
type CacheInspector interface {
	Snapshot() map[problemgen.Level]batchcache.SlotInfo
}

// SessionScreen drives one game: it loads problems, runs the countdown
// and feeds answers to the game.
type SessionScreen struct {
	game        *sess.Game
	cache       CacheInspector
	input       components.TextInput
	tickSeq     int
	confirmQuit bool
	showCache   bool
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatsProvider = (*SessionScreen)(nil)
var _ screen.EscHandler = (*SessionScreen)(nil)

// New creates a SessionScreen. The game is started when the screen is
// initialised. cache may be nil.
func New(game *sess.Game, cache CacheInspector) *SessionScreen {
	return &SessionScreen{
		game:  game,
		cache: cache,
		input: components.NewAnswerInput("Type your answer...", 24),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.game.State() != sess.StatePlaying {
		if err := s.game.Start(); err != nil {
			s.errMsg = err.Error()
			return nil
		}
	}
	return tea.Batch(s.load(), s.input.Init())
}

func (s *SessionScreen) Title() string {
	return "Play"
}

func (s *SessionScreen) HandlesEsc() bool { return true }

func (s *SessionScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{
		Visible:   true,
		Level:     int(s.game.Level()),
		LevelName: s.game.Level().Name(),
		Score:     s.game.Score(),
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit game"},
			{Key: "N", Description: "Keep playing"},
		}
	case s.game.State() == sess.StateLevelUp:
		return []layout.KeyHint{{Key: "Enter", Description: "Next level"}}
	case s.game.Phase() == sess.PhaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "F2", Description: "Cache"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemMsg:
		return s.handleProblem(msg)

	case timerTickMsg:
		return s.handleTick(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.game.Phase() == sess.PhaseAnswering && !s.confirmQuit {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// load runs the game's loader off the UI goroutine.
func (s *SessionScreen) load() tea.Cmd {
	loader := s.game.NextProblem()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return problemMsg{Problem: loader(ctx)}
	}
}

func (s *SessionScreen) tick() tea.Cmd {
	seq := s.tickSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{Seq: seq}
	})
}

func (s *SessionScreen) handleProblem(msg problemMsg) (screen.Screen, tea.Cmd) {
	err := s.game.ProblemReady(msg.Problem)
	switch {
	case errors.Is(err, sess.ErrStaleProblem):
		return s, s.load()
	case err != nil:
		// The game moved on (quit or restarted) while loading.
		return s, nil
	}

	s.input.Reset()
	s.tickSeq++
	if s.game.TimerRunning() {
		return s, tea.Batch(s.tick(), s.input.Init())
	}
	return s, s.input.Init()
}

func (s *SessionScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.tickSeq {
		return s, nil
	}
	if _, timedOut := s.game.Tick(); timedOut {
		s.input.Submit(false)
		return s, nil
	}
	if s.game.TimerRunning() {
		return s, s.tick()
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, router.PopToRoot()
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.tickSeq++
			s.game.Restart()
			return s, router.PopToRoot()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "f2":
		s.showCache = !s.showCache
		return s, nil
	}

	if s.game.State() == sess.StateLevelUp || s.game.Phase() == sess.PhaseFeedback {
		if key == "enter" || key == "space" {
			return s.proceed()
		}
		return s, nil
	}

	if s.game.Phase() != sess.PhaseAnswering {
		return s, nil
	}

	if key == "enter" {
		return s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	// Practice questions have no timer, so a bare Enter moves past them.
	cur := s.game.Current()
	if strings.TrimSpace(s.input.Value()) == "" && (cur == nil || !cur.Degraded()) {
		return s, nil
	}
	res, err := s.game.Submit(s.input.Value())
	if err != nil {
		return s, nil
	}
	s.tickSeq++
	s.input.Submit(res.Outcome.Correct())
	return s, nil
}

func (s *SessionScreen) proceed() (screen.Screen, tea.Cmd) {
	step, err := s.game.Proceed(context.Background())
	if errors.Is(err, sess.ErrWrongState) {
		return s, nil
	}

	if step == sess.StepGameOver {
		game, cache := s.game, s.cache
		next := summary.New(game.Summary(), err, func() screen.Screen {
			return New(game, cache)
		})
		return s, router.Replace(next)
	}
	return s, s.load()
}
