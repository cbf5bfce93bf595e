package middleware

import (
	"fmt"
	"sync/atomic"
)

// ---------------------------------------------------------------------------
// StatsReporter interface
// ---------------------------------------------------------------------------.

type (
	// StatsReporter is implemented by all Runner[CTX] instances.
	// The interface is non-generic, allowing runners over different context
	// types to share one [Registry].
	StatsReporter interface {
		// Name returns the runner's name.
		Name() string
		// Stats returns a point-in-time copy of the runner's counters.
		Stats() RunnerStats
	}

	// RunnerStats holds the counters of a single runner.
	RunnerStats struct {
		Name              string `json:"name"`
		LastError         string `json:"last_error,omitempty"`
		Runs              int64  `json:"runs"`
		FailedRuns        int64  `json:"failed_runs"`
		HandlerFailures   int64  `json:"handler_failures"`
		Panics            int64  `json:"panics"`
		DiscardedFailures int64  `json:"discarded_failures"`
	}

	// runnerStats is the live, concurrently updated form of RunnerStats.
	runnerStats struct {
		lastError         atomic.Pointer[string]
		runs              atomic.Int64
		failedRuns        atomic.Int64
		handlerFailures   atomic.Int64
		panics            atomic.Int64
		discardedFailures atomic.Int64
	}
)

func (s *runnerStats) recordRun(err error) {
	s.runs.Add(1)

	if err != nil {
		s.failedRuns.Add(1)

		// fmt recovers from an Error method that panics on a nil receiver.
		msg := fmt.Sprint(err)
		s.lastError.Store(&msg)
	}
}

func (s *runnerStats) snapshot(name string) RunnerStats {
	out := RunnerStats{
		Name:              name,
		Runs:              s.runs.Load(),
		FailedRuns:        s.failedRuns.Load(),
		HandlerFailures:   s.handlerFailures.Load(),
		Panics:            s.panics.Load(),
		DiscardedFailures: s.discardedFailures.Load(),
	}

	if msg := s.lastError.Load(); msg != nil {
		out.LastError = *msg
	}

	return out
}

// Stats returns a copy of the runner's counters.
func (r *Runner[CTX]) Stats() RunnerStats {
	return r.stats.snapshot(r.name)
}
