package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/router"
	"github.com/fol2/mathsquiz/internal/store"
)

type fakeLister struct {
	records []store.GameRecord
	err     error
	opts    store.QueryOpts
}

func (f *fakeLister) RecentGames(_ context.Context, opts store.QueryOpts) ([]store.GameRecord, error) {
	f.opts = opts
	return f.records, f.err
}

func loaded(t *testing.T, f *fakeLister) *HistoryScreen {
	t.Helper()
	s := New(f)
	s.Update(s.Init()())
	return s
}

func record(score, final int) store.GameRecord {
	return store.GameRecord{
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		GameResultData: store.GameResultData{
			SessionID: "s", StartLevel: 1, FinalLevel: final, Score: score,
			Attempted: 10, Correct: 8, AvgAnswerTime: 3 * time.Second,
		},
	}
}

func TestHistory_Lists(t *testing.T) {
	f := &fakeLister{records: []store.GameRecord{record(220, 4), record(60, 2)}}
	s := loaded(t, f)

	if f.opts.Limit != recentLimit {
		t.Errorf("limit = %d, want %d", f.opts.Limit, recentLimit)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "score  220") || !strings.Contains(view, "score   60") {
		t.Errorf("missing scores in view:\n%s", view)
	}
}

func TestHistory_ExpandShowsLevelName(t *testing.T) {
	s := loaded(t, &fakeLister{records: []store.GameRecord{record(220, 4)}})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "reached Virtuoso") {
		t.Error("expected expanded detail")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if strings.Contains(s.View(100, 30), "reached Virtuoso") {
		t.Error("second Enter should close the detail")
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		from, to          int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
		{3, 0, 0, 0, 1},
	}
	for _, tt := range tests {
		from, to := window(tt.n, tt.cursor, tt.height)
		if from != tt.from || to != tt.to {
			t.Errorf("window(%d, %d, %d) = %d, %d; want %d, %d",
				tt.n, tt.cursor, tt.height, from, to, tt.from, tt.to)
		}
	}
}

func TestHistory_Empty(t *testing.T) {
	s := loaded(t, &fakeLister{})
	if !strings.Contains(s.View(100, 30), "No games yet") {
		t.Error("expected empty message")
	}
}

func TestHistory_Error(t *testing.T) {
	s := loaded(t, &fakeLister{err: errors.New("boom")})
	if !strings.Contains(s.View(100, 30), "boom") {
		t.Error("expected error message")
	}
}

func TestHistory_Navigation(t *testing.T) {
	s := loaded(t, &fakeLister{records: []store.GameRecord{record(1, 1), record(2, 1)}})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", s.cursor)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if s.cursor != 0 {
		t.Fatalf("cursor after Home = %d, want 0", s.cursor)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
}
