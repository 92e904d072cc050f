package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/store"
)

// LoggingProvider records every attempt as an LLM request event and a log
// line. Recording never fails the request.
type LoggingProvider struct {
	inner  Provider
	repo   store.EventRepo
	logger *zap.Logger
	now    func() time.Time
}

// WithLogging wraps p. repo may be nil to log without recording events.
func WithLogging(p Provider, repo store.EventRepo, logger *zap.Logger) *LoggingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, repo: repo, logger: logger.Named("llm"), now: time.Now}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := l.now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:    backendName(l.inner),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = failedContent(err)
	}

	fields := []zap.Field{
		zap.String("purpose", ev.Purpose),
		zap.String("model", ev.Model),
		zap.Stringer("format", req.Format),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", fields...)
	}

	if l.repo != nil {
		if rerr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
			l.logger.Warn("record llm request", zap.Error(rerr))
		}
	}
	return resp, err
}

func backendName(p Provider) string {
	switch p.(type) {
	case *GeminiProvider:
		return "gemini"
	case *OpenRouterProvider:
		return "openrouter"
	case *OpenAIProvider:
		return "openai"
	case *AnthropicProvider:
		return "anthropic"
	case *MockProvider:
		return "mock"
	}
	return p.ModelID()
}

// failedContent keeps the document of a rejected reply for inspection.
func failedContent(err error) string {
	var inv *ErrInvalidResponse
	var trunc *ErrMaxTokensExceeded
	switch {
	case errors.As(err, &inv):
		return string(inv.Content)
	case errors.As(err, &trunc):
		return string(trunc.Content)
	}
	return ""
}

// describeRequest renders a request for the event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n\n", req.Prompt)
	fmt.Fprintf(&b, "[format: %s]\n", req.Format)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
