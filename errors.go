package middleware

import (
	"errors"
	"fmt"
)

type (
	// PanicError is the failure recorded when a handler panics. Value holds
	// the recovered panic value unchanged.
	PanicError struct {
		Value any
		Stack []byte
	}

	// engineError is the concrete type backing all sentinel errors.
	engineError string
)

// Sentinel errors.
var (
	// ErrInvalidLevel is returned when a configured log level cannot be
	// parsed.
	ErrInvalidLevel error = engineError("invalid log level")
)

func (e engineError) Error() string { return string(e) }

func (e *PanicError) Error() string {
	return fmt.Sprintf("middleware: handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error, so that
// errors.Is and errors.As see through the panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// IsPanic reports whether err, or any error it wraps, was produced by a
// panicking handler. Returns false for nil.
func IsPanic(err error) bool {
	if err == nil {
		return false
	}

	var pe *PanicError

	return errors.As(err, &pe)
}
