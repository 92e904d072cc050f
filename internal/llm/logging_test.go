package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fol2/mathsquiz/internal/store"
)

type recordingRepo struct {
	store.EventRepo // only AppendLLMRequest is called

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

// fixedClock advances by step on every call.
func fixedClock(step time.Duration) func() time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`[{"questionText":"What is 1 + 1?","answer":2}]`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 30},
	})
	p := WithLogging(mock, repo, zap.NewNop())
	p.now = fixedClock(250 * time.Millisecond)

	ctx := WithPurpose(context.Background(), "problem-batch")
	_, err := p.Generate(ctx, Request{System: "sys", Prompt: "give me problems", Format: FormatJSONArray})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Purpose != "problem-batch" || !e.Success || e.Provider != "mock" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.InputTokens != 12 || e.OutputTokens != 30 || e.LatencyMs != 250 {
		t.Fatalf("unexpected usage: %+v", e)
	}
	if !strings.Contains(e.RequestBody, "give me problems") || !strings.Contains(e.RequestBody, "[format: json-array]") {
		t.Fatalf("request body not captured: %q", e.RequestBody)
	}
	if !strings.Contains(e.ResponseBody, "questionText") {
		t.Fatalf("response body not captured: %q", e.ResponseBody)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`[{"questionText":`), Truncated: true})
	p := WithLogging(mock, repo, zap.New(core))

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	e := repo.events[0]
	if e.Success || e.ErrorMessage == "" {
		t.Fatalf("expected failed event, got %+v", e)
	}
	if e.Purpose != "unknown" {
		t.Errorf("expected default purpose, got %q", e.Purpose)
	}
	if e.ResponseBody != `[{"questionText":` {
		t.Errorf("expected partial output to be kept, got %q", e.ResponseBody)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Errorf("expected a warning, got %v", logs.All())
	}
}

func TestLogging_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: okContent})
	p := WithLogging(mock, repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Content: okContent}), nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDescribeRequest(t *testing.T) {
	got := describeRequest(Request{
		Prompt: "hello",
		Format: FormatSchema,
		Schema: &Schema{Name: "ack", Definition: map[string]any{"type": "object"}},
	})
	for _, want := range []string{"[user]\nhello", "[format: schema]", "[schema: ack]", `{"type":"object"}`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "[system]") {
		t.Errorf("empty system prompt rendered: %q", got)
	}
}
