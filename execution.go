package middleware

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// execution is the state of a single run: a snapshot of the registry, the
// context, the cursor and the failure slot. It lives exactly as long as the
// run, so separate runs never share a cursor.
type execution[CTX any] struct {
	failure  error
	ctx      CTX
	obs      *observer
	next     Next
	tail     Next
	handlers []Handler[CTX]
	cursor   atomic.Int64
	mu       sync.Mutex
}

// newExecution prepares a run of handlers over c. tail, when non-nil, is
// called every time the cursor is advanced past the last handler.
func newExecution[CTX any](
	handlers []Handler[CTX],
	c CTX,
	obs *observer,
	tail Next,
) *execution[CTX] {
	e := &execution[CTX]{
		handlers: handlers,
		ctx:      c,
		obs:      obs,
		tail:     tail,
	}
	e.next = e.advance

	return e
}

// advance claims the next position and runs the handler there.
func (e *execution[CTX]) advance() {
	// Claim before invoking so the handler's own next sees the position
	// after it.
	index := int(e.cursor.Add(1) - 1)

	if index >= len(e.handlers) {
		if e.tail != nil {
			e.tail()
		}

		return
	}

	h := e.handlers[index]
	if h == nil {
		return
	}

	continued, err := e.invoke(index, h)
	if err == nil {
		return
	}

	// The rest of the chain runs regardless; recording afterwards means an
	// earlier handler's failure overwrites any failure recorded downstream.
	if !continued {
		e.advance()
	}

	e.record(index, err)
}

// invoke calls h, converting a panic into a *PanicError. continued reports
// that the failure came from a composed sub-chain which already forced the
// continuation itself.
func (e *execution[CTX]) invoke(index int, h Handler[CTX]) (continued bool, err error) {
	start := e.obs.clock.Now()
	e.obs.handlerEnter(index)

	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			e.obs.panicked(index, pe)
			err = pe
			continued = false
		}

		e.obs.handlerExit(index, e.obs.clock.Since(start), err)
	}()

	err = h(e.ctx, e.next)
	if sf, ok := err.(*subchainFailure); ok {
		return true, sf.err
	}

	return false, err
}

func (e *execution[CTX]) record(index int, err error) {
	e.mu.Lock()
	prev := e.failure
	e.failure = err
	e.mu.Unlock()

	e.obs.handlerFailed(index, err)

	if prev != nil {
		e.obs.failureDiscarded(prev, err)
	}
}

// err returns the failure currently held in the slot.
func (e *execution[CTX]) err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.failure
}
