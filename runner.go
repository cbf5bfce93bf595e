package middleware

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// ---------------------------------------------------------------------------
// Runner[CTX]: the central type
// ---------------------------------------------------------------------------

// Runner holds an append-only, ordered list of handlers and runs them over a
// caller-owned context. Use [NewRunner] to create one, [Runner.Use] to
// register handlers and [Runner.Run] to execute the chain.
//
// Registration order is execution order. Every call to Run starts from the
// first handler: the cursor belongs to the run, not to the runner.
type Runner[CTX any] struct {
	obs      *observer
	stats    *runnerStats
	registry *Registry
	handlers atomic.Pointer[[]Handler[CTX]]
	name     string
	mu       sync.Mutex
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option configures a [Runner].
//
// Options do not depend on the context type, so one option value can
// configure runners over different contexts.
type Option func(*runnerSetup)

// runnerSetup holds configuration collected during NewRunner.
type runnerSetup struct {
	clock         Clock
	logger        *slog.Logger
	registry      *Registry
	hooks         Hooks
	failureLevel  slog.Level
	traceHandlers bool
}

func defaultSetup() *runnerSetup {
	return &runnerSetup{failureLevel: slog.LevelWarn}
}

// WithHooks sets the lifecycle hooks of the runner.
func WithHooks(h Hooks) Option {
	return func(s *runnerSetup) {
		s.hooks = h
	}
}

// WithClock sets the clock used to measure run and handler durations.
func WithClock(c Clock) Option {
	return func(s *runnerSetup) {
		s.clock = c
	}
}

// WithLogger sets the structured logger. Without it the runner logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(s *runnerSetup) {
		s.logger = l
	}
}

// WithRegistry sets an explicit registry for the runner to register with.
// If not provided, named runners auto-register with DefaultRegistry.
func WithRegistry(reg *Registry) Option {
	return func(s *runnerSetup) {
		s.registry = reg
	}
}

// WithTraceHandlers enables debug logging of every run and handler
// boundary.
func WithTraceHandlers(enabled bool) Option {
	return func(s *runnerSetup) {
		s.traceHandlers = enabled
	}
}

// WithFailureLevel sets the log level used for handler failures and failed
// runs. The default is [slog.LevelWarn].
func WithFailureLevel(level slog.Level) Option {
	return func(s *runnerSetup) {
		s.failureLevel = level
	}
}

// NewRunner creates an empty runner. A non-empty name registers the runner
// with the registry given by [WithRegistry], or with [DefaultRegistry].
// An empty name yields an anonymous, unregistered runner.
func NewRunner[CTX any](name string, opts ...Option) *Runner[CTX] {
	setup := defaultSetup()
	for _, opt := range opts {
		if opt != nil {
			opt(setup)
		}
	}

	r := &Runner[CTX]{
		name:  name,
		stats: &runnerStats{},
	}
	r.obs = newObserver(name, setup)
	r.obs.stats = r.stats

	var empty []Handler[CTX]

	r.handlers.Store(&empty)

	if name != "" {
		r.registry = setup.registry
		if r.registry == nil {
			r.registry = DefaultRegistry()
		}

		r.registry.Register(r)
	}

	return r
}

// Name returns the runner's name.
func (r *Runner[CTX]) Name() string { return r.name }

// Use appends h to the chain. Handlers are never removed or reordered.
//
// Use is safe for concurrent use with Run; a run only sees the handlers
// registered before it started.
func (r *Runner[CTX]) Use(h Handler[CTX]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.handlers.Load()
	// Copy-on-write so that in-flight runs keep their snapshot.
	updated := make([]Handler[CTX], len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, h)
	r.handlers.Store(&updated)
}

// Handlers returns a copy of the registered handlers in registration order.
func (r *Runner[CTX]) Handlers() []Handler[CTX] {
	current := *r.handlers.Load()
	out := make([]Handler[CTX], len(current))
	copy(out, current)

	return out
}

// Len returns the number of registered handlers.
func (r *Runner[CTX]) Len() int { return len(*r.handlers.Load()) }

// Run executes the chain over c and returns c once the first handler has
// returned.
//
// The returned error is the failure of the earliest-registered handler that
// failed, unchanged, or a *PanicError if that handler panicked. Failures
// never stop the chain: handlers after a failing one still run, and context
// mutations made by any handler are kept. c is returned in both cases.
func (r *Runner[CTX]) Run(c CTX) (CTX, error) {
	start := r.obs.clock.Now()
	r.obs.runStart()

	exec := newExecution(*r.handlers.Load(), c, r.obs, nil)
	exec.advance()

	err := exec.err()
	r.obs.runDone(r.obs.clock.Since(start), err)

	return c, err
}
