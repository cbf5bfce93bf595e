package middleware

import "log/slog"

// Factory Function pattern: each preset produces a ready-made option bundle
// for a common use case.

// Observed returns options for a runner whose every run and handler boundary
// is logged to logger at debug level, with failures logged at error level.
func Observed(logger *slog.Logger) []Option {
	return []Option{
		WithLogger(logger),
		WithTraceHandlers(true),
		WithFailureLevel(slog.LevelError),
	}
}

// Quiet returns options for a runner that logs nothing. Hooks and stats
// still work.
func Quiet() []Option {
	return []Option{
		WithLogger(slog.New(slog.DiscardHandler)),
		WithTraceHandlers(false),
	}
}
