package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

var okContent = json.RawMessage(`{"ok":true}`)

func newTestRetry(p Provider) *RetryProvider {
	r := WithRetry(p, RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}, zap.NewNop())
	r.jitter = func() float64 { return 0.5 }
	return r
}

func TestRetry_RecoversFromTransientFailures(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: okContent},
	)

	resp, err := newTestRetry(mock).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != string(okContent) {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_StopsAtMaxAttempts(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	mock := NewMockProvider(down, down, down, down)

	_, err := newTestRetry(mock).Generate(context.Background(), Request{})
	if !errors.As(err, new(*ErrProviderUnavailable)) {
		t.Fatalf("expected last error, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_GivesUp(t *testing.T) {
	tests := []struct {
		name string
		resp MockResponse
	}{
		{"auth", MockResponse{Err: &ErrAuth{Err: errors.New("401")}}},
		{"truncated", MockResponse{Content: json.RawMessage(`[{`), Truncated: true}},
		{"canceled", MockResponse{Err: context.Canceled}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.resp, MockResponse{Content: okContent})

			if _, err := newTestRetry(mock).Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 call, got %d", mock.CallCount())
			}
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("schema")}}
	mock := NewMockProvider(bad, bad, MockResponse{Content: okContent})

	_, err := newTestRetry(mock).Generate(context.Background(), Request{})
	if !errors.As(err, new(*ErrInvalidResponse)) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_SingleAttemptWhenUnset(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Content: okContent})
	r := WithRetry(mock, RetryConfig{}, nil)

	if _, err := r.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCanceledDuringWait(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Content: okContent})
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 2}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("wait was not interrupted")
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := WithRetry(nil, RetryConfig{InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2}, nil)
	r.jitter = func() float64 { return 0.5 }
	transient := &ErrProviderUnavailable{}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := r.backoff(tt.attempt, transient); got != tt.want {
			t.Errorf("backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}

	r.jitter = func() float64 { return 0 }
	if got := r.backoff(1, transient); got != 800*time.Millisecond {
		t.Errorf("low jitter backoff = %s, want 800ms", got)
	}

	limited := &ErrRateLimit{RetryAfter: 3 * time.Second}
	if got := r.backoff(1, limited); got != 3*time.Second {
		t.Errorf("expected Retry-After to win, got %s", got)
	}
}

func TestDeadlineProvider(t *testing.T) {
	var deadline time.Time
	p := deadlineProvider{Provider: ProviderFunc(func(ctx context.Context, _ Request) (*Response, error) {
		deadline, _ = ctx.Deadline()
		return &Response{}, nil
	}), timeout: time.Minute}

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(deadline) <= 0 || time.Until(deadline) > time.Minute {
		t.Errorf("unexpected deadline %v", deadline)
	}
}

// ProviderFunc adapts a function to Provider in tests.
type ProviderFunc func(context.Context, Request) (*Response, error)

func (f ProviderFunc) Generate(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }
func (f ProviderFunc) ModelID() string                                             { return "func" }
