// Package supply is the single entry point the game loop uses to obtain
// problems. It never fails: every error is turned into a playable fallback
// problem carrying a short notice.
package supply

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/batchcache"
	"github.com/fol2/mathsquiz/internal/llm"
	"github.com/fol2/mathsquiz/internal/problemgen"
)

// Config groups the settings of the supply pipeline.
type Config struct {
	Cache     batchcache.Config
	Generator problemgen.Config
}

// DefaultConfig returns the default cache and generator settings.
func DefaultConfig() Config {
	return Config{
		Cache:     batchcache.DefaultConfig(),
		Generator: problemgen.DefaultConfig(),
	}
}

// Supplier hides whether a problem came from the cache, a fresh fetch, or
// the fallback generator.
type Supplier struct {
	config  Config
	factory problemgen.ProviderFactory
	logger  *zap.Logger
	cache   *batchcache.Cache

	mu        sync.RWMutex
	generator *problemgen.LLMGenerator
	hasCred   bool
}

// New creates a Supplier with no credential. Call SetCredential to enable
// remote generation.
func New(cfg Config, factory problemgen.ProviderFactory, logger *zap.Logger) *Supplier {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Supplier{
		config:    cfg,
		factory:   factory,
		logger:    logger.Named("supply"),
		generator: problemgen.New(nil, cfg.Generator),
	}
	s.cache = batchcache.New(generatorSource{s}, cfg.Cache, logger)
	return s
}

// generatorSource routes cache fetches to whichever generator is current.
type generatorSource struct{ s *Supplier }

func (g generatorSource) RequestBatch(ctx context.Context, level problemgen.Level, count int) ([]problemgen.Problem, error) {
	g.s.mu.RLock()
	gen := g.s.generator
	g.s.mu.RUnlock()
	return gen.RequestBatch(ctx, level, count)
}

// GenerateProblem returns a problem for level. It never returns an error
// and never panics; failures yield a degraded fallback problem.
func (s *Supplier) GenerateProblem(ctx context.Context, level problemgen.Level) (p problemgen.Problem) {
	level = level.Clamp()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic while supplying problem",
				zap.Int("level", int(level)),
				zap.Any("panic", r))
			p = degraded(level, problemgen.FailureRequest)
		}
	}()

	if !s.HasValidCredential() {
		return degraded(level, problemgen.FailureNoCredential)
	}

	if p, ok := s.cache.TakeNext(level); ok {
		if s.cache.Remaining(level) == 0 {
			s.cache.TriggerRefill(level)
		}
		return p
	}

	p, err := s.cache.FetchNow(ctx, level)
	if err != nil {
		kind := problemgen.Classify(err)
		s.logger.Warn("serving fallback problem",
			zap.Int("level", int(level)),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return degraded(level, kind)
	}
	return p
}

// Prefetch starts a background refill for level when nothing is buffered.
// It is a no-op without a credential.
func (s *Supplier) Prefetch(level problemgen.Level) {
	if !s.HasValidCredential() {
		return
	}
	s.cache.TriggerRefill(level.Clamp())
}

func degraded(level problemgen.Level, kind problemgen.FailureKind) problemgen.Problem {
	p := problemgen.Fallback(level)
	p.Notice = Notice(kind)
	return p
}

// Notice returns the user-facing explanation attached to a degraded problem.
func Notice(kind problemgen.FailureKind) string {
	switch kind {
	case problemgen.FailureNoCredential:
		return "No API key is set, so this is a practice question. It won't count toward your score."
	case problemgen.FailureMalformed:
		return "The question service sent a reply we couldn't read. Here's a practice question instead."
	case problemgen.FailureEmptyBatch:
		return "The question service sent no questions. Here's a practice question instead."
	default:
		return "Couldn't reach the question service. Here's a practice question instead."
	}
}

// SetCredential builds a provider for token and makes it the source of new
// batches. Cached batches from the previous credential are dropped. An
// empty token removes the credential.
func (s *Supplier) SetCredential(ctx context.Context, token string) error {
	var provider llm.Provider
	if token != "" {
		if s.factory == nil {
			return fmt.Errorf("set credential: no provider factory configured")
		}
		p, err := s.factory(ctx, token)
		if err != nil {
			return fmt.Errorf("set credential: %w", err)
		}
		provider = p
	}

	s.mu.Lock()
	s.generator = problemgen.New(provider, s.config.Generator)
	s.hasCred = provider != nil
	s.mu.Unlock()

	s.cache.ClearAll()
	s.logger.Info("credential updated", zap.Bool("configured", provider != nil))
	return nil
}

// HasValidCredential reports whether remote generation is enabled.
func (s *Supplier) HasValidCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCred
}

// ValidateCredential probes candidate with a minimal request. It does not
// change the current credential.
func (s *Supplier) ValidateCredential(ctx context.Context, candidate string) bool {
	return problemgen.ValidateCredential(ctx, s.factory, candidate)
}

// ModelID returns the model behind the current credential, or "".
func (s *Supplier) ModelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator.ModelID()
}

// ClearCache drops every buffered batch.
func (s *Supplier) ClearCache() { s.cache.ClearAll() }

// InvalidateLevel drops the buffered batch for level.
func (s *Supplier) InvalidateLevel(level problemgen.Level) { s.cache.Invalidate(level.Clamp()) }

// Snapshot reports the cache state per level.
func (s *Supplier) Snapshot() map[problemgen.Level]batchcache.SlotInfo { return s.cache.Snapshot() }

// Wait blocks until background refills have finished.
func (s *Supplier) Wait() { s.cache.Wait() }

// Close stops background work.
func (s *Supplier) Close() { s.cache.Close() }
