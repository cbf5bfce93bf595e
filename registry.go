package middleware

import (
	"sync"
	"sync/atomic"
)

// ---------------------------------------------------------------------------
// Snapshot: result of collecting all registered runners
// ---------------------------------------------------------------------------.

type (
	// Snapshot is the aggregated state of all runners in a registry.
	Snapshot struct {
		Runners    []RunnerStats `json:"runners"`
		Runs       int64         `json:"runs"`
		FailedRuns int64         `json:"failed_runs"`
	}

	// Registry tracks StatsReporter instances and the runner configurations
	// loaded by [LoadConfig].
	//
	// Singleton pattern: DefaultRegistry uses sync.OnceValue for safe lazy
	// init; explicit registries can be created for testing or multi-tenant
	// scenarios.
	Registry struct {
		reporters atomic.Pointer[[]StatsReporter]
		configs   map[string]RunnerConfig
		mu        sync.Mutex
	}
)

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultRegistry = sync.OnceValue(NewRegistry)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}

	var empty []StatsReporter

	r.reporters.Store(&empty)

	return r
}

// Register adds a StatsReporter to the registry.
// This is typically called by NewRunner for named runners.
// It is safe for concurrent use but intended for initialization only.
func (r *Registry) Register(sr StatsReporter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.reporters.Load()
	// Create a new slice (copy-on-write) to avoid mutating the slice
	// that concurrent readers may be iterating.
	updated := make([]StatsReporter, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, sr)
	r.reporters.Store(&updated)
}

// Snapshot collects the stats of every registered runner, in registration
// order, together with run totals.
func (r *Registry) Snapshot() Snapshot {
	reporters := *r.reporters.Load()

	snap := Snapshot{
		Runners: make([]RunnerStats, 0, len(reporters)),
	}

	for _, sr := range reporters {
		st := sr.Stats()
		snap.Runners = append(snap.Runners, st)
		snap.Runs += st.Runs
		snap.FailedRuns += st.FailedRuns
	}

	return snap
}

// DefaultRegistry returns the package-level global registry, creating it
// on first call.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}
