// Package batchcache buffers remotely generated problems per level so the
// game loop rarely waits on the network.
package batchcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/problemgen"
)

// ErrClosed is returned by FetchNow after Close.
var ErrClosed = errors.New("batch cache closed")

// Config controls batch sizing and expiry.
type Config struct {
	// BatchSize is the number of problems requested per fetch.
	BatchSize int `yaml:"batch_size"`

	// Freshness is how long a ready batch may be served after it was
	// installed.
	Freshness time.Duration `yaml:"freshness"`
}

// DefaultConfig returns 5-problem batches with a 5 minute freshness window.
func DefaultConfig() Config {
	return Config{
		BatchSize: 5,
		Freshness: 5 * time.Minute,
	}
}

// Batch is a FIFO of problems generated together for one level.
type Batch struct {
	Level     problemgen.Level
	Problems  []problemgen.Problem
	CreatedAt time.Time
}

// fetch is one outstanding batch request. done is closed once problems
// and err are final.
type fetch struct {
	gen      uint64
	done     chan struct{}
	problems []problemgen.Problem
	err      error
}

// slot is the registry entry for one level. gen is bumped on every
// invalidation; a fetch only installs its batch when its gen still matches.
type slot struct {
	batch    *Batch
	gen      uint64
	inflight *fetch
}

// Cache owns at most one ready batch and at most one outstanding fetch per
// level. It is safe for concurrent use.
type Cache struct {
	source problemgen.Source
	config Config
	logger *zap.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	slots  map[problemgen.Level]*slot
	closed bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache that fetches from source.
func New(source problemgen.Source, cfg Config, logger *zap.Logger, opts ...Option) *Cache {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = def.Freshness
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		source: source,
		config: cfg,
		logger: logger.Named("batchcache"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		slots:  make(map[problemgen.Level]*slot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Cache) Config() Config { return c.config }

func (c *Cache) slotLocked(level problemgen.Level) *slot {
	s, ok := c.slots[level]
	if !ok {
		s = &slot{}
		c.slots[level] = s
	}
	return s
}

func (c *Cache) expired(b *Batch) bool {
	return c.now().Sub(b.CreatedAt) > c.config.Freshness
}

// readyLocked returns the level's batch if it is servable, evicting it if
// it has expired.
func (c *Cache) readyLocked(level problemgen.Level) *Batch {
	s, ok := c.slots[level]
	if !ok || s.batch == nil {
		return nil
	}
	if c.expired(s.batch) {
		c.logger.Debug("evicting expired batch",
			zap.Int("level", int(level)),
			zap.Int("unused", len(s.batch.Problems)))
		s.batch = nil
		return nil
	}
	return s.batch
}

func (c *Cache) popLocked(level problemgen.Level) (problemgen.Problem, bool) {
	b := c.readyLocked(level)
	if b == nil || len(b.Problems) == 0 {
		return problemgen.Problem{}, false
	}
	p := b.Problems[0]
	b.Problems = b.Problems[1:]
	if len(b.Problems) == 0 {
		c.slots[level].batch = nil
	}
	return p, true
}

// TakeNext pops the front problem of the level's ready batch. It reports
// false when no fresh batch exists; an expired batch is evicted on the way.
func (c *Cache) TakeNext(level problemgen.Level) (problemgen.Problem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.popLocked(level)
}

// Remaining returns how many problems the level's fresh batch still holds.
func (c *Cache) Remaining(level problemgen.Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b := c.readyLocked(level); b != nil {
		return len(b.Problems)
	}
	return 0
}

// TriggerRefill starts a background fetch for level unless one is already
// in flight or a fresh non-empty batch is ready. It reports whether a fetch
// was started. Fetch failures are logged and dropped.
func (c *Cache) TriggerRefill(level problemgen.Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	s := c.slotLocked(level)
	if s.inflight != nil {
		return false
	}
	if b := c.readyLocked(level); b != nil && len(b.Problems) > 0 {
		return false
	}
	c.startLocked(s, level)
	return true
}

// FetchNow fetches a batch for level and returns its first problem,
// installing the rest. If a fetch for the level is already in flight it is
// joined instead of issuing a second request. ctx bounds only the wait;
// the request itself keeps running and its result is still cached.
func (c *Cache) FetchNow(ctx context.Context, level problemgen.Level) (problemgen.Problem, error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return problemgen.Problem{}, ErrClosed
		}
		if p, ok := c.popLocked(level); ok {
			c.mu.Unlock()
			return p, nil
		}
		s := c.slotLocked(level)
		f := s.inflight
		if f == nil {
			f = c.startLocked(s, level)
		}
		c.mu.Unlock()

		select {
		case <-f.done:
		case <-ctx.Done():
			return problemgen.Problem{}, ctx.Err()
		}
		if f.err != nil {
			return problemgen.Problem{}, f.err
		}

		c.mu.Lock()
		if p, ok := c.popLocked(level); ok {
			c.mu.Unlock()
			return p, nil
		}
		// A stale fetch keeps its problems on the fetch itself; joiners
		// share them out one each.
		if len(f.problems) > 0 {
			p := f.problems[0]
			f.problems = f.problems[1:]
			c.mu.Unlock()
			return p, nil
		}
		c.mu.Unlock()
		// Drained by other callers; fetch again.
	}
}

func (c *Cache) startLocked(s *slot, level problemgen.Level) *fetch {
	f := &fetch{gen: s.gen, done: make(chan struct{})}
	s.inflight = f
	c.wg.Add(1)
	go c.run(f, level)
	return f
}

func (c *Cache) run(f *fetch, level problemgen.Level) {
	defer c.wg.Done()
	defer close(f.done)

	start := c.now()
	problems, err := c.request(level)

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.slotLocked(level)
	if s.inflight == f {
		s.inflight = nil
	}

	if err != nil {
		f.err = err
		c.logger.Warn("batch fetch failed",
			zap.Int("level", int(level)),
			zap.Stringer("kind", problemgen.Classify(err)),
			zap.Error(err))
		return
	}

	kept := problems[:0:0]
	for _, p := range problems {
		if p.Level == level {
			kept = append(kept, p)
		}
	}
	if dropped := len(problems) - len(kept); dropped > 0 {
		c.logger.Warn("dropped problems with mismatched level",
			zap.Int("level", int(level)),
			zap.Int("dropped", dropped))
	}
	if len(kept) == 0 {
		f.err = problemgen.ErrEmptyBatch
		c.logger.Warn("batch fetch returned no usable problems", zap.Int("level", int(level)))
		return
	}
	f.problems = kept

	if f.gen != s.gen || c.closed {
		c.logger.Debug("discarding stale batch",
			zap.Int("level", int(level)),
			zap.Uint64("fetch_gen", f.gen),
			zap.Uint64("current_gen", s.gen))
		return
	}

	// Installed problems are served from the batch only.
	f.problems = nil
	s.batch = &Batch{
		Level:     level,
		Problems:  kept,
		CreatedAt: c.now(),
	}
	c.logger.Debug("installed batch",
		zap.Int("level", int(level)),
		zap.Int("size", len(kept)),
		zap.Duration("latency", c.now().Sub(start)))
}

func (c *Cache) request(level problemgen.Level) (problems []problemgen.Problem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch source panicked: %v", r)
		}
	}()
	return c.source.RequestBatch(c.ctx, level, c.config.BatchSize)
}

// Invalidate drops the level's batch and detaches any in-flight fetch for
// it. A detached fetch still completes but its result is not cached.
func (c *Cache) Invalidate(level problemgen.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked(level)
}

func (c *Cache) invalidateLocked(level problemgen.Level) {
	s := c.slotLocked(level)
	s.batch = nil
	s.inflight = nil
	s.gen++
}

// ClearAll invalidates every level.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for level := range c.slots {
		c.invalidateLocked(level)
	}
}

// Wait blocks until every background fetch has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding fetches and waits for them to return.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

// SlotInfo summarises one level's cache state.
type SlotInfo struct {
	Ready      int
	Age        time.Duration
	Refilling  bool
	Generation uint64
}

// Snapshot reports the state of every level the cache has seen.
func (c *Cache) Snapshot() map[problemgen.Level]SlotInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[problemgen.Level]SlotInfo, len(c.slots))
	for level, s := range c.slots {
		info := SlotInfo{Refilling: s.inflight != nil, Generation: s.gen}
		if b := c.readyLocked(level); b != nil {
			info.Ready = len(b.Problems)
			info.Age = c.now().Sub(b.CreatedAt)
		}
		out[level] = info
	}
	return out
}
