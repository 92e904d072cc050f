// Package session implements the game loop: levels, score, streaks, the
// per-question timer and the end-of-game progress merge.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/store"
)

var (
	// ErrWrongState is returned when an action does not apply to the
	// current state or phase.
	ErrWrongState = errors.New("action not valid in current game state")

	// ErrStaleProblem is returned by ProblemReady for a problem generated
	// for a level other than the current one.
	ErrStaleProblem = errors.New("problem is for a different level")
)

// Supplier provides problems. Implementations never fail; see
// supply.Supplier.
type Supplier interface {
	GenerateProblem(ctx context.Context, level problemgen.Level) problemgen.Problem
	Prefetch(level problemgen.Level)
	ClearCache()
	InvalidateLevel(level problemgen.Level)
	HasValidCredential() bool
}

// ProgressStore persists lifetime statistics.
type ProgressStore interface {
	Load(ctx context.Context) (store.Progress, error)
	Save(ctx context.Context, p store.Progress) error
}

// GameRecorder stores one record per finished game.
type GameRecorder interface {
	AppendGameResult(ctx context.Context, data store.GameResultData) error
}

// Loader fetches a problem. It touches no game state and may run on any
// goroutine.
type Loader func(ctx context.Context) problemgen.Problem

// Game is the progression state machine. It is not safe for concurrent
// use; drive it from a single goroutine and run Loaders elsewhere.
type Game struct {
	config   Config
	supplier Supplier
	progress ProgressStore
	recorder GameRecorder
	logger   *zap.Logger
	now      func() time.Time
	rand     problemgen.Intn

	state State
	phase Phase

	sessionID  string
	startLevel problemgen.Level
	level      problemgen.Level
	score      int
	streak     int
	attempted  int
	correct    int
	degraded   int
	timeLeft   time.Duration
	startedAt  time.Time

	current *problemgen.Problem
	last    Result
	summary *Summary
}

// Option configures a Game.
type Option func(*Game)

// WithRecorder records every finished game.
func WithRecorder(r GameRecorder) Option {
	return func(g *Game) { g.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithRand replaces the source used to pick feedback messages.
func WithRand(r problemgen.Intn) Option {
	return func(g *Game) { g.rand = r }
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// New creates a game. It starts in StateCredentialSetup when the config
// requires a credential and the supplier has none, else StateNotStarted.
func New(cfg Config, supplier Supplier, progress ProgressStore, logger *zap.Logger, opts ...Option) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		config:   cfg,
		supplier: supplier,
		progress: progress,
		logger:   logger.Named("session"),
		now:      time.Now,
		rand:     defaultRand{},
		state:    StateNotStarted,
		level:    cfg.StartLevel,
	}
	for _, opt := range opts {
		opt(g)
	}
	if cfg.RequireCredential && !supplier.HasValidCredential() {
		g.state = StateCredentialSetup
	}
	return g
}

// CompleteSetup leaves the credential setup screen. The game may still run
// without a credential, serving practice problems.
func (g *Game) CompleteSetup() error {
	if g.state != StateCredentialSetup {
		return ErrWrongState
	}
	g.state = StateNotStarted
	return nil
}

// Start begins a new game at the configured start level.
func (g *Game) Start() error {
	if g.state != StateNotStarted && g.state != StateGameOver {
		return ErrWrongState
	}
	g.supplier.ClearCache()
	g.reset()

	g.sessionID = uuid.NewString()
	g.startedAt = g.now()
	g.state = StatePlaying
	g.phase = PhaseLoading

	g.logger.Info("game started",
		zap.String("session_id", g.sessionID),
		zap.Int("level", int(g.level)))
	return nil
}

// Restart abandons the current game and returns to the start screen.
func (g *Game) Restart() {
	g.supplier.ClearCache()
	g.reset()
	g.state = StateNotStarted
}

func (g *Game) reset() {
	g.phase = PhaseIdle
	g.sessionID = ""
	g.startLevel = g.config.StartLevel
	g.level = g.config.StartLevel
	g.score = 0
	g.streak = 0
	g.attempted = 0
	g.correct = 0
	g.degraded = 0
	g.timeLeft = g.config.TimeForLevel(g.level)
	g.current = nil
	g.last = Result{}
	g.summary = nil
}

// NextProblem returns a Loader for the current level. The level is
// captured now; ProblemReady rejects the result if the level has moved on.
func (g *Game) NextProblem() Loader {
	level := g.level
	supplier := g.supplier
	return func(ctx context.Context) problemgen.Problem {
		return supplier.GenerateProblem(ctx, level)
	}
}

// ProblemReady installs p as the current problem and starts its timer.
func (g *Game) ProblemReady(p problemgen.Problem) error {
	if g.state != StatePlaying || g.phase != PhaseLoading {
		return ErrWrongState
	}
	if p.Level != g.level {
		g.logger.Debug("discarding problem for stale level",
			zap.Int("problem_level", int(p.Level)),
			zap.Int("level", int(g.level)))
		return ErrStaleProblem
	}

	g.current = &p
	g.timeLeft = g.config.TimeForLevel(g.level)
	g.last = Result{}
	g.phase = PhaseAnswering
	g.attempted++

	if g.attempted < g.config.TotalQuestions {
		g.supplier.Prefetch(g.level)
	}
	return nil
}

// Advance loads the next problem synchronously. Convenient for tests and
// non-interactive drivers.
func (g *Game) Advance(ctx context.Context) error {
	return g.ProblemReady(g.NextProblem()(ctx))
}

// Tick counts the timer down by one second. When it reaches zero the
// question is submitted as a timeout and the result is returned with true.
// The timer does not run for degraded problems.
func (g *Game) Tick() (Result, bool) {
	if g.state != StatePlaying || g.phase != PhaseAnswering || g.current == nil {
		return Result{}, false
	}
	if g.current.Degraded() {
		return Result{}, false
	}
	g.timeLeft -= time.Second
	if g.timeLeft > 0 {
		return Result{}, false
	}
	g.timeLeft = 0
	return g.resolve("", true), true
}

// Submit checks input against the current problem.
func (g *Game) Submit(input string) (Result, error) {
	if g.state != StatePlaying || g.phase != PhaseAnswering || g.current == nil {
		return Result{}, ErrWrongState
	}
	return g.resolve(input, false), nil
}

func (g *Game) resolve(input string, timedOut bool) Result {
	p := g.current
	g.phase = PhaseFeedback

	r := Result{Answer: p.Answer}
	switch {
	case p.Degraded():
		g.streak = 0
		g.degraded++
		r.Outcome = OutcomeDegraded
		r.Message = degradedMessage
	case timedOut:
		g.streak = 0
		r.Outcome = OutcomeTimeout
		r.Message = timeoutMessage
	case problemgen.CheckAnswer(input, *p):
		r.Points = g.award()
		r.Outcome = OutcomeCorrect
		r.Message = pick(g.rand, correctMessages)
		if g.levelUp() {
			r.Outcome = OutcomeLevelUp
			r.Message = pick(g.rand, levelUpMessages)
		}
	default:
		g.streak = 0
		r.Outcome = OutcomeIncorrect
		r.Message = pick(g.rand, incorrectMessages)
	}
	r.Level = g.level
	g.last = r

	g.logger.Debug("answer resolved",
		zap.String("problem_id", p.ID),
		zap.Stringer("outcome", r.Outcome),
		zap.Int("score", g.score),
		zap.Int("streak", g.streak),
		zap.Int("level", int(g.level)))
	return r
}

// award scores a correct answer at the current level.
func (g *Game) award() int {
	points, err := problemgen.PointsForLevel(g.level)
	if err != nil {
		g.logger.Error("no points for level", zap.Error(err))
	}
	g.score += points
	g.correct++
	g.streak++
	return points
}

// levelUp advances the level once the streak reaches the threshold. The
// streak restarts either way; at the cap the level stays put.
func (g *Game) levelUp() bool {
	if g.streak < g.config.StreakToLevelUp {
		return false
	}
	g.streak = 0
	if g.level >= g.config.MaxLevel {
		return false
	}

	old := g.level
	g.level++
	g.supplier.InvalidateLevel(old)
	g.state = StateLevelUp

	g.logger.Info("level up",
		zap.Int("from", int(old)),
		zap.Int("to", int(g.level)))
	return true
}

// Proceed leaves the feedback phase or the level-up announcement. It
// returns StepLoad when another problem is due, or finalizes the game and
// returns StepGameOver. A persistence error is returned alongside
// StepGameOver; the game is over regardless.
func (g *Game) Proceed(ctx context.Context) (Step, error) {
	switch {
	case g.state == StateLevelUp:
	case g.state == StatePlaying && g.phase == PhaseFeedback:
	default:
		return StepLoad, ErrWrongState
	}

	g.current = nil
	if g.attempted >= g.config.TotalQuestions {
		return StepGameOver, g.finalize(ctx)
	}
	g.state = StatePlaying
	g.phase = PhaseLoading
	return StepLoad, nil
}

func (g *Game) finalize(ctx context.Context) error {
	g.state = StateGameOver
	g.phase = PhaseIdle

	elapsed := g.now().Sub(g.startedAt)
	var avg time.Duration
	if g.attempted > 0 {
		avg = elapsed / time.Duration(g.attempted)
	}
	g.summary = &Summary{
		SessionID:     g.sessionID,
		StartLevel:    g.startLevel,
		FinalLevel:    g.level,
		Score:         g.score,
		Attempted:     g.attempted,
		Correct:       g.correct,
		Degraded:      g.degraded,
		Duration:      elapsed,
		AvgAnswerTime: avg,
	}

	g.logger.Info("game over",
		zap.String("session_id", g.sessionID),
		zap.Int("score", g.score),
		zap.Int("final_level", int(g.level)),
		zap.Int("correct", g.correct))

	var errs []error
	if g.progress != nil {
		prev, err := g.progress.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("load progress: %w", err))
		} else {
			merged := MergeProgress(prev, *g.summary, g.now())
			if err := g.progress.Save(ctx, merged); err != nil {
				errs = append(errs, fmt.Errorf("save progress: %w", err))
			} else {
				g.summary.Progress = &merged
			}
		}
	}
	if g.recorder != nil {
		if err := g.recorder.AppendGameResult(ctx, g.summary.GameResult()); err != nil {
			errs = append(errs, fmt.Errorf("record game: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		g.logger.Warn("persisting game result failed", zap.Error(err))
	}
	return err
}

// State returns the current state.
func (g *Game) State() State { return g.state }

// Phase returns the sub-phase while playing.
func (g *Game) Phase() Phase { return g.phase }

// Level returns the current level.
func (g *Game) Level() problemgen.Level { return g.level }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Streak returns the current run of correct answers.
func (g *Game) Streak() int { return g.streak }

// Attempted returns how many problems have been served.
func (g *Game) Attempted() int { return g.attempted }

// Correct returns how many answers scored.
func (g *Game) Correct() int { return g.correct }

// TotalQuestions returns the number of questions in a game.
func (g *Game) TotalQuestions() int { return g.config.TotalQuestions }

// StreakToLevelUp returns the streak needed to advance a level.
func (g *Game) StreakToLevelUp() int { return g.config.StreakToLevelUp }

// TimeForLevel returns the full countdown for the current level.
func (g *Game) TimeForLevel() time.Duration { return g.config.TimeForLevel(g.level) }

// MaxLevel returns the level cap.
func (g *Game) MaxLevel() problemgen.Level { return g.config.MaxLevel }

// TimeLeft returns the time remaining on the current question.
func (g *Game) TimeLeft() time.Duration { return g.timeLeft }

// TimerRunning reports whether Tick counts down right now.
func (g *Game) TimerRunning() bool {
	return g.state == StatePlaying && g.phase == PhaseAnswering &&
		g.current != nil && !g.current.Degraded()
}

// Current returns the current problem, or nil between problems.
func (g *Game) Current() *problemgen.Problem { return g.current }

// LastResult returns the result of the latest submission.
func (g *Game) LastResult() Result { return g.last }

// SessionID identifies the current or last game.
func (g *Game) SessionID() string { return g.sessionID }

// Summary returns the final summary once the game is over.
func (g *Game) Summary() *Summary { return g.summary }
