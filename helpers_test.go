package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test fixtures shared by the package tests
// ---------------------------------------------------------------------------

// state is the context type used throughout the tests.
type state struct {
	A string
	N int
}

// recorder collects a trace of handler events; safe for use from handler
// goroutines.
type recorder struct {
	events []string
	mu     sync.Mutex
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// onion returns a handler that records name-before, awaits next, then records
// name-after.
func onion(rec *recorder, name string) Handler[*state] {
	return func(_ *state, next Next) error {
		rec.add(name + "-before")
		next()
		rec.add(name + "-after")
		return nil
	}
}

// failing returns a handler that fails with err before touching the context
// or calling next.
func failing(rec *recorder, name string, err error) Handler[*state] {
	return func(c *state, next Next) error {
		rec.add(name)
		if err != nil {
			return err
		}
		c.A = "unreachable"
		next()
		return nil
	}
}

// stepClock is a fake Clock that advances by step on every Now call.
type stepClock struct {
	now  time.Time
	step time.Duration
	mu   sync.Mutex
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{
		now:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *stepClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace length = %d, want %d; trace = %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q; full trace = %v", i, got[i], want[i], got)
		}
	}
}

var (
	errM1 = errors.New("m1 error")
	errM2 = errors.New("m2 error")
)
