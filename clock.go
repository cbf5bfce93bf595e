package middleware

import "time"

// Clock is the time source a [Runner] uses to measure how long each run and
// each handler invocation takes. Those durations are passed to
// [Hooks.OnRunDone] and [Hooks.OnHandlerExit] and logged as "elapsed" when
// handler tracing is on. Production code uses [RealClock]; tests substitute
// a fake clock to get exact durations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
}

// RealClock is a zero-value [Clock] backed by the real [time] package.
// It is safe for concurrent use because it holds no mutable state.
type RealClock struct{}

// Now returns the current wall-clock time via [time.Now].
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t via [time.Since].
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
