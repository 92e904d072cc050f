package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM events by purpose label. Ignored elsewhere.
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// GameResultData summarises one finished game.
type GameResultData struct {
	SessionID     string
	StartLevel    int
	FinalLevel    int
	Score         int
	Attempted     int
	Correct       int
	Degraded      int
	AvgAnswerTime time.Duration
}

// GameRecord is a persisted game result.
type GameRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GameResultData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event by ID, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendGameResult records a finished game.
	AppendGameResult(ctx context.Context, data GameResultData) error

	// RecentGames returns game records, newest first.
	RecentGames(ctx context.Context, opts QueryOpts) ([]GameRecord, error)
}

// Progress is the learner's lifetime statistics.
type Progress struct {
	HighScore    int
	BestLevel    int
	GamesPlayed  int
	TotalCorrect int

	// AverageTime is the running mean of per-game average answer time.
	AverageTime time.Duration

	UpdatedAt time.Time
}

// DefaultProgress is the state before any game has been played.
func DefaultProgress() Progress {
	return Progress{BestLevel: 1}
}

// ProgressRepo loads and saves the single progress record.
type ProgressRepo interface {
	// Load returns the stored progress, or DefaultProgress when none exists.
	Load(ctx context.Context) (Progress, error)

	// Save replaces the stored progress.
	Save(ctx context.Context, p Progress) error
}
