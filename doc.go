// Package middleware provides a generic onion-model middleware engine.
//
// The central type is Runner[CTX], which runs an ordered list of handlers
// over one shared, caller-owned context value. Each handler receives the
// context and a [Next] continuation; code before the call to next runs in
// registration order, code after it runs in reverse order.
//
// A failing handler does not stop the chain: the runner advances past it,
// lets the rest of the chain run, and then reports a single failure. When
// several handlers fail in one run, the failure of the earliest-registered
// one is returned.
package middleware
