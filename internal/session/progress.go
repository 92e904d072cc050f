package session

import (
	"time"

	"github.com/fol2/mathsquiz/internal/store"
)

// MergeProgress folds one finished game into lifetime progress: high score
// and best level by maximum, counters by addition, and average answer time
// as a running mean over games.
func MergeProgress(prev store.Progress, s Summary, now time.Time) store.Progress {
	next := prev
	next.HighScore = max(prev.HighScore, s.Score)
	next.BestLevel = max(prev.BestLevel, int(s.FinalLevel))
	next.GamesPlayed = prev.GamesPlayed + 1
	next.TotalCorrect = prev.TotalCorrect + s.Correct

	if prev.GamesPlayed <= 0 {
		next.AverageTime = s.AvgAnswerTime
	} else {
		total := prev.AverageTime*time.Duration(prev.GamesPlayed) + s.AvgAnswerTime
		next.AverageTime = total / time.Duration(next.GamesPlayed)
	}

	next.UpdatedAt = now
	return next
}
