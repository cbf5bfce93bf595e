package middleware

import (
	"context"
	"log/slog"
	"time"
)

// observer fans run events out to hooks, the logger and the runner's
// counters. Composed sub-chains use an observer with no stats and a
// discarding logger.
type observer struct {
	clock         Clock
	logger        *slog.Logger
	stats         *runnerStats
	name          string
	hooks         Hooks
	failureLevel  slog.Level
	traceHandlers bool
}

func newObserver(name string, setup *runnerSetup) *observer {
	obs := &observer{
		name:          name,
		hooks:         setup.hooks,
		clock:         setup.clock,
		logger:        setup.logger,
		failureLevel:  setup.failureLevel,
		traceHandlers: setup.traceHandlers,
	}

	if obs.clock == nil {
		obs.clock = RealClock{}
	}

	if obs.logger == nil {
		obs.logger = slog.New(slog.DiscardHandler)
	}

	return obs
}

// enabled reports whether a record at level would be emitted; callers check
// it before building attributes.
func (o *observer) enabled(level slog.Level) bool {
	return o.logger.Enabled(context.Background(), level)
}

// log emits a record. Errors must be passed with slog.Any so that a failing
// Error method is handled by the slog handler instead of the run.
func (o *observer) log(level slog.Level, msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("runner", o.name))
	o.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (o *observer) runStart() {
	o.hooks.emitRunStart()

	if o.traceHandlers {
		o.log(slog.LevelDebug, "run started")
	}
}

func (o *observer) runDone(elapsed time.Duration, err error) {
	if o.stats != nil {
		o.stats.recordRun(err)
	}

	o.hooks.emitRunDone(elapsed, err)

	switch {
	case err != nil:
		if o.enabled(o.failureLevel) {
			o.log(o.failureLevel, "run failed",
				slog.Duration("elapsed", elapsed),
				slog.Any("error", err),
			)
		}
	case o.traceHandlers:
		o.log(slog.LevelDebug, "run completed",
			slog.Duration("elapsed", elapsed),
		)
	}
}

func (o *observer) handlerEnter(index int) {
	o.hooks.emitHandlerEnter(index)

	if o.traceHandlers {
		o.log(slog.LevelDebug, "handler entered", slog.Int("index", index))
	}
}

func (o *observer) handlerExit(index int, elapsed time.Duration, err error) {
	o.hooks.emitHandlerExit(index, elapsed, err)

	if o.traceHandlers {
		o.log(slog.LevelDebug, "handler exited",
			slog.Int("index", index),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func (o *observer) panicked(index int, pe *PanicError) {
	if o.stats != nil {
		o.stats.panics.Add(1)
	}

	o.hooks.emitPanic(index, pe.Value)

	if o.enabled(o.failureLevel) {
		o.log(o.failureLevel, "handler panicked",
			slog.Int("index", index),
			slog.Any("panic", pe.Value),
			slog.String("stack", string(pe.Stack)),
		)
	}
}

func (o *observer) handlerFailed(index int, err error) {
	if o.stats != nil {
		o.stats.handlerFailures.Add(1)
	}

	if o.enabled(o.failureLevel) {
		o.log(o.failureLevel, "handler failed",
			slog.Int("index", index),
			slog.Any("error", err),
		)
	}
}

func (o *observer) failureDiscarded(discarded, kept error) {
	if o.stats != nil {
		o.stats.discardedFailures.Add(1)
	}

	o.hooks.emitFailureDiscarded(discarded, kept)
	if o.enabled(slog.LevelDebug) {
		o.log(slog.LevelDebug, "failure discarded",
			slog.Any("discarded", discarded),
			slog.Any("kept", kept),
		)
	}
}
