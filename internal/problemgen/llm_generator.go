package problemgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fol2/mathsquiz/internal/llm"
)

// Purpose labels recorded with LLM request events.
const (
	PurposeBatch      = "problem-batch"
	PurposeCredential = "credential-check"
)

// LLMGenerator implements Source using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	rand     Intn
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, rand: globalRand{}}
}

// ModelID returns the underlying provider's model, or "" without one.
func (g *LLMGenerator) ModelID() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.ModelID()
}

// RequestBatch asks the model for count problems at level.
func (g *LLMGenerator) RequestBatch(ctx context.Context, level Level, count int) ([]Problem, error) {
	if g.provider == nil {
		return nil, ErrNoCredential
	}
	if count <= 0 {
		return nil, fmt.Errorf("request batch of %d: %w", count, ErrEmptyBatch)
	}
	level = level.Clamp()

	ctx = llm.WithPurpose(ctx, PurposeBatch)
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	topics := level.Topics()
	topic := topics[g.rand.IntN(len(topics))]

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(level, count, topic),
		Format:      llm.FormatJSONArray,
		Schema:      batchSchema(count),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	raw, err := parseBatch(resp.Content, count)
	if err != nil {
		return nil, err
	}

	problems := make([]Problem, 0, len(raw))
	for i, r := range raw {
		p := Problem{
			ID:         uuid.NewString(),
			Text:       r.QuestionText,
			Answer:     r.Answer,
			Level:      level,
			Provenance: ProvenanceAI,
			HasLatex:   r.HasLatex,
		}

		// Run validators in order.
		for _, v := range g.config.Validators {
			if verr := v.Validate(&p); verr != nil {
				return nil, &ErrMalformedResponse{
					Content: string(resp.Content),
					Err:     fmt.Errorf("entry %d: %w", i, verr),
				}
			}
		}
		problems = append(problems, p)
	}

	return problems, nil
}

// classifyProviderError separates replies that arrived but were unusable
// from requests that never completed.
func classifyProviderError(err error) error {
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return &ErrMalformedResponse{Content: string(truncated.Content), Err: err}
	}
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &ErrMalformedResponse{Content: string(invalid.Content), Err: invalid.Err}
	}
	return &ErrRequestFailed{Err: err}
}

// withRand replaces the topic randomness source. Used by tests.
func (g *LLMGenerator) withRand(r Intn) *LLMGenerator {
	g.rand = r
	return g
}
