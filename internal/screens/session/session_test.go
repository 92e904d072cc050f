package session

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/batchcache"
	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/screens/summary"
	sess "github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/store"
)

// fakeSupplier serves "What is 1 + 1?" at the requested level, or a
// fallback problem when degraded is set.
type fakeSupplier struct {
	degraded bool
}

func (f *fakeSupplier) GenerateProblem(_ context.Context, level problemgen.Level) problemgen.Problem {
	if f.degraded {
		p := problemgen.Fallback(level)
		p.Notice = "practice only"
		return p
	}
	return problemgen.Problem{
		ID:         "p",
		Text:       "What is 1 + 1?",
		Answer:     2,
		Level:      level,
		Provenance: problemgen.ProvenanceAI,
	}
}

func (f *fakeSupplier) Prefetch(problemgen.Level)        {}
func (f *fakeSupplier) ClearCache()                      {}
func (f *fakeSupplier) InvalidateLevel(problemgen.Level) {}
func (f *fakeSupplier) HasValidCredential() bool         { return true }

type memProgress struct{ p store.Progress }

func (m *memProgress) Load(context.Context) (store.Progress, error) { return m.p, nil }
func (m *memProgress) Save(_ context.Context, p store.Progress) error {
	m.p = p
	return nil
}

type fakeCache map[problemgen.Level]batchcache.SlotInfo

func (f fakeCache) Snapshot() map[problemgen.Level]batchcache.SlotInfo { return f }

func newScreen(t *testing.T, supplier *fakeSupplier, total int) *SessionScreen {
	t.Helper()
	cfg := sess.DefaultConfig()
	cfg.TotalQuestions = total
	g := sess.New(cfg, supplier, &memProgress{p: store.DefaultProgress()}, zap.NewNop())
	s := New(g, fakeCache{2: {Ready: 3, Age: 12 * time.Second}})
	if cmd := s.Init(); cmd == nil {
		t.Fatal("expected load command from Init")
	}
	if g.State() != sess.StatePlaying {
		t.Fatalf("state after Init = %v, want playing", g.State())
	}
	return s
}

// deliver loads a problem synchronously, as the load command would.
func deliver(s *SessionScreen) tea.Cmd {
	msg := s.load()().(problemMsg)
	_, cmd := s.Update(msg)
	return cmd
}

func typeAnswer(s *SessionScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(s *SessionScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestSessionScreen_ShowsProblem(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	if !strings.Contains(s.View(100, 30), "Fetching a question") {
		t.Error("expected loading text before the problem arrives")
	}

	deliver(s)
	view := s.View(100, 30)
	if !strings.Contains(view, "What is 1 + 1?") {
		t.Error("expected the problem text")
	}
	if !strings.Contains(view, "Question 1/10") {
		t.Error("expected the question counter")
	}
	if !s.game.TimerRunning() {
		t.Error("timer should run for a generated problem")
	}
}

func TestSessionScreen_CorrectAnswer(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	typeAnswer(s, "2")
	press(s, tea.KeyEnter)

	res := s.game.LastResult()
	if res.Outcome != sess.OutcomeCorrect || res.Points != 10 {
		t.Fatalf("result = %+v, want correct for 10 points", res)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, res.Message) || !strings.Contains(view, "+10 points") {
		t.Error("expected feedback message and points")
	}
}

func TestSessionScreen_WrongAnswerRevealsAnswer(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	typeAnswer(s, "5")
	press(s, tea.KeyEnter)

	if s.game.LastResult().Outcome != sess.OutcomeIncorrect {
		t.Fatalf("outcome = %v, want incorrect", s.game.LastResult().Outcome)
	}
	if !strings.Contains(s.View(100, 30), "Answer: 2") {
		t.Error("expected the correct answer to be revealed")
	}
}

func TestSessionScreen_EmptySubmitIgnored(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	press(s, tea.KeyEnter)
	if s.game.Phase() != sess.PhaseAnswering {
		t.Fatalf("phase = %v, want answering", s.game.Phase())
	}
}

func TestSessionScreen_LevelUpPanel(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	for i := 0; i < 3; i++ {
		deliver(s)
		typeAnswer(s, "2")
		press(s, tea.KeyEnter)
		if i < 2 {
			if cmd := press(s, tea.KeyEnter); cmd == nil {
				t.Fatal("expected a load command after feedback")
			}
		}
	}

	if s.game.State() != sess.StateLevelUp {
		t.Fatalf("state = %v, want level_up", s.game.State())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "LEVEL UP!") || !strings.Contains(view, "Solver") {
		t.Error("expected level-up panel naming level 2")
	}
	if got := s.HeaderStats(); got.Level != 2 || got.Score != 30 {
		t.Fatalf("header stats = %+v", got)
	}

	if cmd := press(s, tea.KeyEnter); cmd == nil {
		t.Fatal("expected a load command after the level-up panel")
	}
	if s.game.State() != sess.StatePlaying {
		t.Fatalf("state = %v, want playing", s.game.State())
	}
}

func TestSessionScreen_TimerTicks(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	before := s.game.TimeLeft()
	_, cmd := s.Update(timerTickMsg{Seq: s.tickSeq})
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if s.game.TimeLeft() != before-time.Second {
		t.Fatalf("time left = %v, want %v", s.game.TimeLeft(), before-time.Second)
	}

	// A tick from an earlier problem is ignored.
	if _, cmd := s.Update(timerTickMsg{Seq: s.tickSeq - 1}); cmd != nil {
		t.Fatal("stale tick should be dropped")
	}
	if s.game.TimeLeft() != before-time.Second {
		t.Fatal("stale tick changed the timer")
	}
}

func TestSessionScreen_Timeout(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	for s.game.Phase() == sess.PhaseAnswering {
		s.Update(timerTickMsg{Seq: s.tickSeq})
	}
	if s.game.LastResult().Outcome != sess.OutcomeTimeout {
		t.Fatalf("outcome = %v, want timeout", s.game.LastResult().Outcome)
	}
}

func TestSessionScreen_DegradedNotice(t *testing.T) {
	s := newScreen(t, &fakeSupplier{degraded: true}, 10)
	deliver(s)

	if s.game.TimerRunning() {
		t.Error("timer should not run for practice problems")
	}
	if !strings.Contains(s.View(100, 30), "practice only") {
		t.Error("expected the practice notice")
	}
}

func TestSessionScreen_EmptySubmitSkipsPracticeProblem(t *testing.T) {
	s := newScreen(t, &fakeSupplier{degraded: true}, 10)
	deliver(s)

	press(s, tea.KeyEnter)
	if s.game.Phase() != sess.PhaseFeedback {
		t.Fatalf("phase = %v, want feedback", s.game.Phase())
	}
	if got := s.game.LastResult().Outcome; got != sess.OutcomeDegraded {
		t.Errorf("outcome = %v, want degraded", got)
	}
}

func TestSessionScreen_StaleProblemReloads(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	_, cmd := s.Update(problemMsg{Problem: problemgen.Problem{Level: 7, Provenance: problemgen.ProvenanceAI}})
	if cmd == nil {
		t.Fatal("expected a reload for a problem at the wrong level")
	}
	if s.game.Current() != nil {
		t.Fatal("stale problem must not be installed")
	}
}

func TestSessionScreen_GameOverShowsSummary(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 1)
	deliver(s)
	typeAnswer(s, "2")
	press(s, tea.KeyEnter)

	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected navigation at game over")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Fatalf("replaced with %T, want summary", msg.Screen)
	}
	if s.game.State() != sess.StateGameOver {
		t.Fatalf("state = %v, want game_over", s.game.State())
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	deliver(s)

	press(s, tea.KeyEscape)
	if !strings.Contains(s.View(100, 30), "Quit this game?") {
		t.Fatal("expected quit confirmation")
	}
	press(s, 'n')
	if s.confirmQuit {
		t.Fatal("N should dismiss the confirmation")
	}

	press(s, tea.KeyEscape)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected pop after confirming")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Fatal("expected PopToRootMsg")
	}
	if s.game.State() != sess.StateNotStarted {
		t.Fatalf("state = %v, want not_started", s.game.State())
	}
}

func TestSessionScreen_CacheLine(t *testing.T) {
	s := newScreen(t, &fakeSupplier{}, 10)
	press(s, tea.KeyF2)
	if !strings.Contains(s.View(120, 30), "L2 3 ready 0:12") {
		t.Error("expected cache debug line")
	}
}

func TestFormatSnapshot(t *testing.T) {
	got := FormatSnapshot(map[problemgen.Level]batchcache.SlotInfo{
		3: {Refilling: true},
		1: {Ready: 4, Age: 5 * time.Second},
	})
	want := "L1 4 ready 0:05 · L3 0 ready refilling"
	if got != want {
		t.Errorf("FormatSnapshot = %q, want %q", got, want)
	}
	if FormatSnapshot(nil) != "empty" {
		t.Error("empty snapshot")
	}
}

func TestFormatAnswer(t *testing.T) {
	tests := map[float64]string{12: "12", 2.5: "2.5", -0.25: "-0.25"}
	for in, want := range tests {
		if got := FormatAnswer(in); got != want {
			t.Errorf("FormatAnswer(%v) = %q, want %q", in, got, want)
		}
	}
}
