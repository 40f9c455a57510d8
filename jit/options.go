package jit

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindling-vm/kindling/bridge"
)

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithCompilationEnabled controls whether compilation is globally enabled.
// When false, Initialize is a no-op. Enabled by default.
func WithCompilationEnabled(enabled bool) Option {
	return func(c *Compiler) {
		c.compilationEnabled = enabled
	}
}

// WithSelectedBackend controls whether this compiler is the active backend.
// When false, Initialize is a no-op. Selected by default.
func WithSelectedBackend(selected bool) Option {
	return func(c *Compiler) {
		c.selected = selected
	}
}

// WithInterpreterOnly puts the runtime in purely interpreted mode: there is
// nothing to warm up, so Bootstrap returns immediately.
func WithInterpreterOnly(interpreterOnly bool) Option {
	return func(c *Compiler) {
		c.interpreterOnly = interpreterOnly
	}
}

// WithVerboseBootstrap enables progress markers and the summary line during
// bootstrap, written to the writer configured with WithProgressWriter.
func WithVerboseBootstrap(verbose bool) Option {
	return func(c *Compiler) {
		c.verbose = verbose
	}
}

// WithProgressWriter sets the destination for bootstrap progress output.
// Defaults to io.Discard.
func WithProgressWriter(w io.Writer) Option {
	return func(c *Compiler) {
		if w != nil {
			c.progress = w
		}
	}
}

// WithLogger sets the logger used for compile diagnostics, notably escaped
// managed exceptions. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithLifecycle sets the hooks notified when bootstrap finishes and when
// deferred startup compilation policy is lifted.
func WithLifecycle(lc bridge.Lifecycle) Option {
	return func(c *Compiler) {
		if lc != nil {
			c.lifecycle = lc
		}
	}
}

// WithPollInterval sets the sleep between queue-size polls in the bootstrap
// drain loop. Defaults to DefaultPollInterval. Intended for tests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Compiler) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithEagerCompileFlag shares the runtime's "compile everything eagerly"
// debug flag so bootstrap can suspend it for the duration of the warm-up,
// keeping the compiler's own bootstrap from being starved by an unrelated
// eager-compilation workload. Debug builds only.
func WithEagerCompileFlag(flag *atomic.Bool) Option {
	return func(c *Compiler) {
		c.eagerCompileAll = flag
	}
}
