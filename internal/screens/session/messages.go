package session

import "github.com/fol2/mathsquiz/internal/problemgen"

// problemMsg carries a loaded problem back to the UI goroutine.
type problemMsg struct {
	Problem problemgen.Problem
}

// timerTickMsg is the one-second countdown tick. Seq ties it to the
// problem it was started for; ticks from earlier problems are dropped.
type timerTickMsg struct {
	Seq int
}
