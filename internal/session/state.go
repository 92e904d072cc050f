package session

import "github.com/fol2/mathsquiz/internal/problemgen"

// State is the top-level game state.
type State int

const (
	StateCredentialSetup State = iota // No credential at launch; waiting for setup
	StateNotStarted                   // Start screen
	StatePlaying                      // Serving questions
	StateLevelUp                      // Paused on a level-up announcement
	StateGameOver                     // Final summary
)

func (s State) String() string {
	switch s {
	case StateCredentialSetup:
		return "credential_setup"
	case StateNotStarted:
		return "not_started"
	case StatePlaying:
		return "playing"
	case StateLevelUp:
		return "level_up"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// Phase is the sub-phase of StatePlaying.
type Phase int

const (
	PhaseIdle      Phase = iota // Not playing
	PhaseLoading                // Waiting for a problem
	PhaseAnswering              // Problem shown, timer running
	PhaseFeedback               // Answer submitted, feedback shown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	}
	return "unknown"
}

// Outcome classifies a submission. UIs must branch on it rather than on
// the feedback message.
type Outcome int

const (
	OutcomeNone      Outcome = iota
	OutcomeCorrect           // Correct, no level change
	OutcomeLevelUp           // Correct and the level advanced
	OutcomeIncorrect         // Wrong answer
	OutcomeTimeout           // Timer ran out
	OutcomeDegraded          // Answer to a fallback problem; never scores
)

// Correct reports whether the outcome scored.
func (o Outcome) Correct() bool {
	return o == OutcomeCorrect || o == OutcomeLevelUp
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCorrect:
		return "correct"
	case OutcomeLevelUp:
		return "level-up"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeDegraded:
		return "degraded"
	}
	return "unknown"
}

// Result is the feedback for one submission.
type Result struct {
	Outcome Outcome

	// Message is the feedback text shown to the player.
	Message string

	// Answer is the problem's correct answer, revealed after the submission.
	Answer float64

	// Points awarded for this submission.
	Points int

	// Level is the level after the submission.
	Level problemgen.Level
}

// Step tells the driver what to do after Proceed.
type Step int

const (
	StepLoad     Step = iota // Load the next problem
	StepGameOver             // The game finished
)
