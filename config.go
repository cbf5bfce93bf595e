package middleware

import (
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
)

type (
	// configFile is the top-level JSON structure.
	configFile struct {
		Runners map[string]RunnerConfig `json:"runners"`
	}

	// RunnerConfig holds the decoded configuration for a single runner.
	// Export it to embed in your own app config structs for JSON or YAML
	// unmarshaling, then call [BuildOptions] to obtain options for
	// [NewRunner]. Handlers are never configured here; they are always
	// registered in code with [Runner.Use].
	RunnerConfig struct {
		// TraceHandlers enables debug logging of run and handler
		// boundaries.
		// Optional. Example: true.
		TraceHandlers *bool `json:"trace_handlers,omitempty" yaml:"trace_handlers,omitempty"`
		// FailureLevel is the log level for handler failures.
		// Optional. One of: "debug", "info", "warn", "error".
		FailureLevel *string `json:"failure_level,omitempty" yaml:"failure_level,omitempty"`
	}
)

// LoadConfig reads a JSON configuration file and stores the runner
// configurations in a [Registry]. Actual [Runner] instances are not created
// until [GetRunner] is called, allowing the caller to provide the context
// type and additional code-level options.
func LoadConfig(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("middleware: read config: %w", err)
	}

	var cfg configFile
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("middleware: parse config: %w", err)
	}

	// Validate all runners eagerly so errors surface at load time.
	for name, rc := range cfg.Runners {
		if _, buildErr := BuildOptions(&rc); buildErr != nil {
			return nil, fmt.Errorf("middleware: runner %q: %w", name, buildErr)
		}
	}

	reg := NewRegistry()
	reg.mu.Lock()
	reg.configs = cfg.Runners
	reg.mu.Unlock()

	return reg, nil
}

// BuildOptions converts a [RunnerConfig] into options suitable for
// [NewRunner].
func BuildOptions(rc *RunnerConfig) ([]Option, error) {
	var opts []Option

	if rc.TraceHandlers != nil {
		opts = append(opts, WithTraceHandlers(*rc.TraceHandlers))
	}

	if rc.FailureLevel != nil {
		level, err := parseLevel(*rc.FailureLevel)
		if err != nil {
			return nil, fmt.Errorf("failure_level: %w", err)
		}

		opts = append(opts, WithFailureLevel(level))
	}

	return opts, nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}

	return level, nil
}

// GetRunner retrieves a named runner configuration from a config-loaded
// [Registry] and returns a typed [Runner] registered with reg.
// If the name is not found in the stored configs, a bare runner is created
// with only the provided opts.
//
// User-provided options are applied after config options, so they take
// precedence.
func GetRunner[CTX any](reg *Registry, name string, opts ...Option) *Runner[CTX] {
	reg.mu.Lock()
	rc, ok := reg.configs[name]
	reg.mu.Unlock()

	allOpts := []Option{WithRegistry(reg)}

	if ok {
		// Already validated by LoadConfig.
		cfgOpts, _ := BuildOptions(&rc)
		allOpts = append(allOpts, cfgOpts...)
	}

	allOpts = append(allOpts, opts...)

	return NewRunner[CTX](name, allOpts...)
}
