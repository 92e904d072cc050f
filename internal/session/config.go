package session

import (
	"fmt"
	"time"

	"github.com/fol2/mathsquiz/internal/problemgen"
)

// Config holds the game rules.
type Config struct {
	StartLevel        problemgen.Level `yaml:"start_level"`
	MaxLevel          problemgen.Level `yaml:"max_level"`
	StreakToLevelUp   int              `yaml:"streak_to_level_up"`
	TotalQuestions    int              `yaml:"total_questions"`
	BaseTime          time.Duration    `yaml:"base_time"`
	TimeIncrement     time.Duration    `yaml:"time_increment"`
	RequireCredential bool             `yaml:"require_credential"`
}

// DefaultConfig returns the standard rules: five levels, ten questions,
// three in a row to level up, 30 seconds plus 3 per level.
func DefaultConfig() Config {
	return Config{
		StartLevel:        1,
		MaxLevel:          5,
		StreakToLevelUp:   3,
		TotalQuestions:    10,
		BaseTime:          30 * time.Second,
		TimeIncrement:     3 * time.Second,
		RequireCredential: true,
	}
}

// Validate checks the rules are internally consistent.
func (c Config) Validate() error {
	if !c.StartLevel.Valid() {
		return fmt.Errorf("start level %d outside %d..%d", c.StartLevel, problemgen.MinLevel, problemgen.MaxLevel)
	}
	if !c.MaxLevel.Valid() {
		return fmt.Errorf("max level %d outside %d..%d", c.MaxLevel, problemgen.MinLevel, problemgen.MaxLevel)
	}
	if c.StartLevel > c.MaxLevel {
		return fmt.Errorf("start level %d above max level %d", c.StartLevel, c.MaxLevel)
	}
	if c.StreakToLevelUp < 1 {
		return fmt.Errorf("streak to level up must be positive, got %d", c.StreakToLevelUp)
	}
	if c.TotalQuestions < 1 {
		return fmt.Errorf("total questions must be positive, got %d", c.TotalQuestions)
	}
	if c.BaseTime < time.Second {
		return fmt.Errorf("base time must be at least 1s, got %s", c.BaseTime)
	}
	if c.TimeIncrement < 0 {
		return fmt.Errorf("time increment must not be negative, got %s", c.TimeIncrement)
	}
	return nil
}

// TimeForLevel is the answer time allowed at level. It never decreases as
// the level rises.
func (c Config) TimeForLevel(level problemgen.Level) time.Duration {
	return c.BaseTime + time.Duration(level-1)*c.TimeIncrement
}
