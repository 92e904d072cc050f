package home

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
	"github.com/fol2/mathsquiz/internal/store"
)

type fakeProgress struct {
	p   store.Progress
	err error
}

func (f fakeProgress) Load(context.Context) (store.Progress, error) { return f.p, f.err }

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "" }
func (s *stubScreen) Title() string                          { return s.title }

func load(t *testing.T, h *HomeScreen) {
	t.Helper()
	cmd := h.Init()
	if cmd == nil {
		t.Fatal("expected a progress load command")
	}
	h.Update(cmd())
}

func TestHome_ShowsProgress(t *testing.T) {
	h := New(Config{Progress: fakeProgress{p: store.Progress{
		HighScore: 220, BestLevel: 4, GamesPlayed: 3, TotalCorrect: 21, AverageTime: 4 * time.Second,
	}}})
	load(t, h)

	view := h.View(100, 40)
	for _, want := range []string{"BEST 220", "LEVEL 4", "3 GAMES"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHome_NoGamesYet(t *testing.T) {
	h := New(Config{Progress: fakeProgress{p: store.DefaultProgress()}})
	load(t, h)
	if !strings.Contains(h.View(100, 40), "No games yet") {
		t.Error("expected first-run message")
	}
}

func TestHome_ProgressError(t *testing.T) {
	h := New(Config{Progress: fakeProgress{err: errors.New("disk gone")}})
	load(t, h)
	if !strings.Contains(h.View(100, 40), "disk gone") {
		t.Error("expected load error in view")
	}
}

func TestHome_PracticeNotice(t *testing.T) {
	h := New(Config{HasCredential: func() bool { return false }})
	if !strings.Contains(h.View(100, 40), "practice questions only") {
		t.Error("expected practice mode notice")
	}

	h = New(Config{HasCredential: func() bool { return true }})
	if strings.Contains(h.View(100, 40), "practice questions only") {
		t.Error("notice shown despite a credential")
	}
}

func TestHome_StartPushesPlay(t *testing.T) {
	h := New(Config{Play: func() screen.Screen { return &stubScreen{title: "Play"} }})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Play" {
		t.Errorf("pushed %q, want Play", push.Screen.Title())
	}
}

func TestHome_DisabledItemsSkipped(t *testing.T) {
	h := New(Config{Play: func() screen.Screen { return &stubScreen{} }})

	// History and API key are disabled; down goes straight to QUIT.
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if h.menu.Selected != 3 {
		t.Fatalf("selected = %d, want 3", h.menu.Selected)
	}
}
