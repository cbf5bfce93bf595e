package middleware

import (
	"fmt"
	"slices"
)

// Chain of Responsibility pattern: each handler decides when the rest of the
// chain runs by calling next.

type (
	// Next advances the chain to the next registered handler and returns once
	// that handler, and everything it drove downstream, has finished. Calling
	// next is the only way to wait for the downstream chain; a handler that
	// calls it from a separate goroutine gives up that guarantee, and its own
	// code after the call may run before the downstream chain completes.
	//
	// Each call consumes the next unconsumed position of the run. Once the
	// chain is exhausted, further calls return immediately.
	Next func()

	// Handler is a unit of composable logic run by a [Runner]. It receives
	// the run's context, which it may mutate in place, and the continuation
	// that runs the handlers registered after it.
	//
	// A handler fails by returning a non-nil error or by panicking. Either
	// way the runner still runs the rest of the chain before recording the
	// failure.
	Handler[CTX any] func(c CTX, next Next) error
)

// Compose folds handlers into a single handler. The composed handler runs
// its own sub-chain, with its own cursor and the same failure policy as a
// [Runner], and calls the outer next once the sub-chain is exhausted. It
// returns the failure surviving in the sub-chain, if any; when the composed
// handler runs inside a [Runner], that failure is recorded unchanged.
//
// Registering Compose(a, b) followed by c behaves like registering a, b
// and c directly.
func Compose[CTX any](handlers ...Handler[CTX]) Handler[CTX] {
	chain := slices.Clone(handlers)
	obs := newObserver("", defaultSetup())

	return func(c CTX, next Next) error {
		exec := newExecution(chain, c, obs, next)
		exec.advance()

		if err := exec.err(); err != nil {
			return &subchainFailure{err: err}
		}

		return nil
	}
}

// subchainFailure carries the failure of a composed sub-chain. The sub-chain
// has already applied its own forced continuations, so the enclosing run
// records err without advancing again.
type subchainFailure struct {
	err error
}

func (f *subchainFailure) Error() string { return fmt.Sprint(f.err) }
func (f *subchainFailure) Unwrap() error { return f.err }
