package middleware

// Run is a convenience function that runs handlers over c without keeping
// a named [Runner]. It creates an anonymous runner internally and calls
// [Runner.Run]. The runner is not registered with any [Registry].
func Run[CTX any](c CTX, handlers ...Handler[CTX]) (CTX, error) {
	r := NewRunner[CTX]("")
	for _, h := range handlers {
		r.Use(h)
	}

	return r.Run(c)
}
