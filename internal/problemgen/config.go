package problemgen

import "time"

// Config tunes LLMGenerator.
type Config struct {
	// Validators run in order on every problem of a batch.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// RequestTimeout bounds one batch request including retries. Zero
	// leaves only the caller's deadline.
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Validators:     []Validator{StructuralValidator{}},
		MaxTokens:      2048,
		Temperature:    0.9,
		RequestTimeout: 30 * time.Second,
	}
}
