package session

import (
	"time"

	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/store"
)

// Summary holds the data displayed on the game over screen.
type Summary struct {
	SessionID     string
	StartLevel    problemgen.Level
	FinalLevel    problemgen.Level
	Score         int
	Attempted     int
	Correct       int
	Degraded      int
	Duration      time.Duration
	AvgAnswerTime time.Duration

	// Progress is the merged lifetime progress, nil if it was not saved.
	Progress *store.Progress
}

// Accuracy is the fraction of attempted problems answered correctly.
func (s Summary) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

// GameResult converts the summary to its persisted form.
func (s Summary) GameResult() store.GameResultData {
	return store.GameResultData{
		SessionID:     s.SessionID,
		StartLevel:    int(s.StartLevel),
		FinalLevel:    int(s.FinalLevel),
		Score:         s.Score,
		Attempted:     s.Attempted,
		Correct:       s.Correct,
		Degraded:      s.Degraded,
		AvgAnswerTime: s.AvgAnswerTime,
	}
}
