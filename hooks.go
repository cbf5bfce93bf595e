package middleware

import "time"

// Hooks holds optional callback functions for run and handler lifecycle
// events. All fields are nil by default; callers set only the hooks they care
// about. Once constructed, a Hooks value must not be mutated. Emit methods
// read the function fields without synchronisation.
//
// Handlers that call next from their own goroutine cause hooks to fire on
// that goroutine, so callbacks must be safe for concurrent use.
//
// Observer pattern: decouples run event emission from consumers
// (logging, metrics, tracing) without the runner knowing about them.
type Hooks struct {
	OnRunStart         func()
	OnRunDone          func(elapsed time.Duration, err error)
	OnHandlerEnter     func(index int)
	OnHandlerExit      func(index int, elapsed time.Duration, err error)
	OnPanic            func(index int, value any)
	OnFailureDiscarded func(discarded, kept error)
}

func (h *Hooks) emitRunStart() {
	if h.OnRunStart != nil {
		h.OnRunStart()
	}
}

func (h *Hooks) emitRunDone(elapsed time.Duration, err error) {
	if h.OnRunDone != nil {
		h.OnRunDone(elapsed, err)
	}
}

func (h *Hooks) emitHandlerEnter(index int) {
	if h.OnHandlerEnter != nil {
		h.OnHandlerEnter(index)
	}
}

func (h *Hooks) emitHandlerExit(index int, elapsed time.Duration, err error) {
	if h.OnHandlerExit != nil {
		h.OnHandlerExit(index, elapsed, err)
	}
}

func (h *Hooks) emitPanic(index int, value any) {
	if h.OnPanic != nil {
		h.OnPanic(index, value)
	}
}

func (h *Hooks) emitFailureDiscarded(discarded, kept error) {
	if h.OnFailureDiscarded != nil {
		h.OnFailureDiscarded(discarded, kept)
	}
}
