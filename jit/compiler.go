// Package jit coordinates delegation of optimizing compilation from a
// managed runtime to an external, pluggable compiler. It owns the one-time
// bootstrap phase that warms up and validates the compiler, and the
// per-request protocol that submits a single method, invokes the compiler
// synchronously, and classifies its structured result.
package jit

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindling-vm/kindling/bridge"
	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/object"
)

// DefaultPollInterval is the sleep between queue-size polls in the
// bootstrap drain loop.
const DefaultPollInterval = 100 * time.Millisecond

// Compiler is the coordination state for one pluggable compiler backend.
// It is constructed once by the runtime's startup sequence and passed by
// reference to everything that needs it; exactly one instance exists per
// process. Construction is not thread-safe and must precede concurrent use.
type Compiler struct {
	queue     broker.Queue
	bridge    bridge.Bridge
	lifecycle bridge.Lifecycle
	logger    zerolog.Logger
	progress  io.Writer

	compilationEnabled bool
	selected           bool
	interpreterOnly    bool
	verbose            bool
	pollInterval       time.Duration

	// eagerCompileAll is the runtime's "compile everything eagerly" debug
	// flag, shared so bootstrap can suspend it. Nil in production builds.
	eagerCompileAll *atomic.Bool

	initialized         atomic.Bool
	bootstrapping       atomic.Bool
	firstRequestHandled atomic.Bool
	methodsCompiled     atomic.Int64
	codeInstallTimer    Timer
}

// New creates a Compiler that submits work to the given queue and reaches
// managed code through the given bridge.
func New(queue broker.Queue, b bridge.Bridge, opts ...Option) *Compiler {
	c := &Compiler{
		queue:              queue,
		bridge:             b,
		lifecycle:          bridge.NoopLifecycle{},
		logger:             zerolog.Nop(),
		progress:           io.Discard,
		compilationEnabled: true,
		selected:           true,
		pollInterval:       DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize transitions the compiler into an active state. It is a no-op
// unless compilation is globally enabled and this compiler is selected as
// the active backend. On activation the runtime is told that deferred
// startup compilation policy is no longer in effect: from here on the
// compiler is itself ordinary application load.
func (c *Compiler) Initialize() {
	if !c.compilationEnabled || !c.selected {
		return
	}
	if !c.initialized.CompareAndSwap(false, true) {
		return
	}
	c.lifecycle.DeferredCompilationNoLongerNeeded()
}

// Initialized reports whether Initialize activated the compiler.
func (c *Compiler) Initialized() bool {
	return c.initialized.Load()
}

// Bootstrapping reports whether the bootstrap phase is in progress.
func (c *Compiler) Bootstrapping() bool {
	return c.bootstrapping.Load()
}

// MethodsCompiled returns the number of successfully compiled methods.
func (c *Compiler) MethodsCompiled() int64 {
	return c.methodsCompiled.Load()
}

// CodeInstallTimer returns the timer accumulating time spent installing
// compiled artifacts. The install machinery adds to it; this layer only
// reports it.
func (c *Compiler) CodeInstallTimer() *Timer {
	return &c.codeInstallTimer
}

// IsTrivial reports whether the method is not worth optimizing. While
// bootstrapping it always returns false: nothing is exempted from
// compilation during warm-up, since the classifier itself may not yet be
// validated. Outside bootstrap it delegates to the bridge's classifier.
func (c *Compiler) IsTrivial(m *object.Method) bool {
	if c.bootstrapping.Load() {
		return false
	}
	return c.bridge.IsTrivial(m)
}

// PrintTimers writes the compilation timing report.
func (c *Compiler) PrintTimers(w io.Writer) {
	fmt.Fprintf(w, "       code install time:        %6.3f s\n", c.codeInstallTimer.Seconds())
}
