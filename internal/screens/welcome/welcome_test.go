package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	next := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(next), &callCount
}

func sendFrames(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(frameMsg{})
	}
	return cmd
}

func containsBanner(view string) bool {
	return strings.Contains(view, "Three in a row")
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcome()

	if containsBanner(w.View(80, 24)) {
		t.Error("banner should not be visible at start")
	}

	sendFrames(w, sparkleAt)
	if w.stage() != stageSparkle {
		t.Errorf("stage after %d frames = %d, want sparkle", sparkleAt, w.stage())
	}
	if containsBanner(w.View(80, 24)) {
		t.Error("banner should not be visible while sparkling")
	}

	sendFrames(w, bannerAt-sparkleAt)
	if !containsBanner(w.View(80, 24)) {
		t.Error("banner should be visible after phase 2")
	}
}

func TestKeypressSkipsSplash(t *testing.T) {
	w, callCount := newTestWelcome()
	sendFrames(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if *callCount != 1 {
		t.Errorf("next should be called once, got %d", *callCount)
	}
}

func TestAutoTransitionAfterSplash(t *testing.T) {
	w, callCount := newTestWelcome()

	cmd := sendFrames(w, splashUntil)
	if cmd == nil {
		t.Fatal("expected transition command when the splash ends")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg with a screen, got %#v", msg)
	}
	if *callCount != 1 {
		t.Errorf("next should be called once, got %d", *callCount)
	}
}

func TestTransitionOnlyOnce(t *testing.T) {
	w, callCount := newTestWelcome()

	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if cmd := sendFrames(w, 30); cmd != nil {
		t.Error("ticks after the transition should stop")
	}
	if *callCount != 1 {
		t.Errorf("next should be called exactly once, got %d", *callCount)
	}
}

func TestTwinkle(t *testing.T) {
	got := strings.Split(twinkle("a\nb\nc", 0), "\n")
	if len(got) != 3 {
		t.Fatalf("lines = %d, want 3", len(got))
	}
	if !strings.Contains(got[0], "★") || !strings.Contains(got[2], "★") {
		t.Errorf("expected sparkles on lines 1 and 3, got %q", got)
	}
	if got[1] != "b" {
		t.Errorf("middle line = %q, want untouched", got[1])
	}
}

func TestNarrowBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "M A T H S Q U I Z") {
		t.Error("expected compact banner on a narrow terminal")
	}
}
