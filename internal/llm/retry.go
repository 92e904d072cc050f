package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// retryClass says how a failed attempt may be retried.
type retryClass int

const (
	giveUp retryClass = iota
	retryOnce
	retryBackoff
)

// classifyRetry decides whether err is worth another attempt. A bad
// document gets one more try since sampling may fix it; a rejected key or a
// truncated reply will fail the same way again.
func classifyRetry(err error) retryClass {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, new(*ErrAuth)), errors.As(err, new(*ErrMaxTokensExceeded)):
		return giveUp
	case errors.As(err, new(*ErrInvalidResponse)):
		return retryOnce
	}
	return retryBackoff
}

// RetryProvider retries transient failures with exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger

	// jitter returns a value in [0, 1).
	jitter func() float64
}

// WithRetry wraps p. MaxAttempts below 1 means a single attempt.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) *RetryProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger.Named("retry"), jitter: rand.Float64}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	retriedInvalid := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		class := classifyRetry(err)
		if class == retryOnce {
			if retriedInvalid {
				class = giveUp
			}
			retriedInvalid = true
		}
		if class == giveUp || attempt >= attempts {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.logger.Debug("retrying llm request",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// backoff is the wait after the given 1-based attempt: the server's
// Retry-After when present, else InitialWait*Multiplier^(attempt-1) capped
// at MaxWait, with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt - 1 {
		wait *= r.config.Multiplier
	}
	if limit := float64(r.config.MaxWait); limit > 0 && wait > limit {
		wait = limit
	}
	wait *= 0.8 + 0.4*r.jitter()
	return time.Duration(wait)
}

// deadlineProvider bounds each Generate call, retries included.
type deadlineProvider struct {
	Provider
	timeout time.Duration
}

func (d deadlineProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.Provider.Generate(ctx, req)
}
