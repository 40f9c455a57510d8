package bridge

import (
	"context"

	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/object"
)

// Outcome is the result of one call into managed code. Exactly one of the
// value and the exception is set; there is no ambient pending-exception
// state to inspect or clear.
type Outcome struct {
	value object.Object
	exc   *Exception
}

// ValueOutcome wraps a successfully returned managed value.
func ValueOutcome(v object.Object) Outcome {
	return Outcome{value: v}
}

// ExceptionOutcome wraps an exception that escaped the call.
func ExceptionOutcome(e *Exception) Outcome {
	return Outcome{exc: e}
}

// Raised reports whether the call ended with an escaped exception.
func (o Outcome) Raised() bool { return o.exc != nil }

// Value returns the managed value, or nil if an exception was raised.
func (o Outcome) Value() object.Object { return o.value }

// Exception returns the escaped exception, or nil on success.
func (o Outcome) Exception() *Exception { return o.exc }

// CompileOutput is the structured result the compiler's main entry point
// returns when no exception escapes. A nil CompileOutput with a nil
// Exception violates the compile protocol.
type CompileOutput struct {
	// FailureMessage is empty on success. When set, the compilation failed
	// and Retry indicates whether resubmission may succeed.
	FailureMessage string
	Retry          bool

	// InlinedBytes is the amount of bytecode inlined into the produced
	// artifact. Diagnostic only; meaningful only on success.
	InlinedBytes int64
}

// Bridge is the capability interface through which the coordination layer
// reaches the pluggable compiler living in managed code. Implementations
// must be safe for concurrent use: compile workers call into the bridge
// independently.
type Bridge interface {
	// EnsureInitialized prepares the compiler's supporting class-loading
	// state. Idempotent; called before every compile request. A returned
	// exception is treated like any other escaped exception.
	EnsureInitialized(ctx context.Context) *Exception

	// CompilerInstance returns the lazily created singleton object
	// representing the active compiler instance, used as the receiver
	// for Compile.
	CompilerInstance(ctx context.Context) Outcome

	// ResolveMethod resolves a method handle into the compiler-visible
	// wrapper object that Compile accepts.
	ResolveMethod(ctx context.Context, m *object.Method) Outcome

	// Compile invokes the compiler's main entry point. The call blocks for
	// the full duration of the compilation. On success the compiler is
	// expected to have installed an artifact on the task; the coordination
	// layer verifies that and classifies the result.
	Compile(ctx context.Context, receiver, method object.Object, entryOffset int, task *broker.Task) (*CompileOutput, *Exception)

	// IsTrivial reports whether the method is not worth optimizing. The
	// coordination layer overrides this during bootstrap.
	IsTrivial(m *object.Method) bool
}

// Lifecycle receives notifications from the coordination layer that the
// broader runtime acts on. Implementations must tolerate being called at
// most once per event.
type Lifecycle interface {
	// BootstrapFinished signals that the warm-up phase has drained and any
	// work deferred pending bootstrap completion may proceed.
	BootstrapFinished()

	// DeferredCompilationNoLongerNeeded signals that the compiler is now
	// ordinary application load, so interpreter-only startup policy should
	// be lifted.
	DeferredCompilationNoLongerNeeded()
}

// NoopLifecycle is a Lifecycle that ignores all notifications.
type NoopLifecycle struct{}

func (NoopLifecycle) BootstrapFinished() {}

func (NoopLifecycle) DeferredCompilationNoLongerNeeded() {}
