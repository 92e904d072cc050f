package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/store"
)

// NewProvider builds the configured backend wrapped as
// deadline → retry → logging → backend, so every attempt is recorded.
// repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *zap.Logger) (Provider, error) {
	base, err := NewBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Provider == "mock" {
		return base, nil
	}

	var p Provider = WithRetry(WithLogging(base, repo, logger), cfg.Retry, logger)
	if cfg.Timeout > 0 {
		p = deadlineProvider{Provider: p, timeout: cfg.Timeout}
	}
	return p, nil
}

// NewBaseProvider builds the bare backend selected by cfg.Provider.
func NewBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
