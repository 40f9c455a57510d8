package jit

import (
	"context"

	"github.com/kindling-vm/kindling/bridge"
	"github.com/kindling-vm/kindling/broker"
)

// CompileMethod executes one compile request synchronously on the calling
// worker and classifies its result onto the task. It never returns an
// error: every outcome short of a protocol violation is resolved here and
// recorded on the task, since compilation is a background optimization and
// the method keeps running unoptimized on failure.
func (c *Compiler) CompileMethod(ctx context.Context, task *broker.Task) {
	if c.bootstrapping.Load() && task.IsOSR() {
		// No OSR compilations during bootstrap - the compiler is just too
		// slow at this point, and we know that there are no endless loops.
		return
	}
	defer func() {
		if c.bootstrapping.Load() {
			c.firstRequestHandled.Store(true)
		}
	}()

	if exc := c.bridge.EnsureInitialized(ctx); exc != nil {
		c.failWithException(task, exc)
		return
	}
	receiver := c.bridge.CompilerInstance(ctx)
	if receiver.Raised() {
		c.failWithException(task, receiver.Exception())
		return
	}

	// Resolve the method into a compiler-visible wrapper. If that raises,
	// the compile call is never issued and the exception is classified
	// below exactly like one escaping the compile call itself.
	var (
		output *bridge.CompileOutput
		exc    *bridge.Exception
	)
	wrapped := c.bridge.ResolveMethod(ctx, task.Method())
	if wrapped.Raised() {
		exc = wrapped.Exception()
	} else {
		output, exc = c.bridge.Compile(ctx, receiver.Value(), wrapped.Value(), task.EntryOffset(), task)
	}

	switch {
	case exc != nil:
		// Escaped exceptions should generally be handled by the compiler in
		// some useful way, but if they leak through to here report them
		// instead of dying or silently ignoring them.
		c.failWithException(task, exc)
	case output == nil:
		// The compiler must return a structured result when no exception
		// escaped; anything else means the compile protocol itself is
		// broken and no progress can be made.
		panic("jit: compile call returned no result and no exception")
	case output.FailureMessage != "":
		task.Fail(output.FailureMessage, output.Retry)
	case task.Artifact() == nil:
		task.Fail("no artifact produced", true)
	default:
		task.Succeed(output.InlinedBytes)
		c.methodsCompiled.Add(1)
	}
}

func (c *Compiler) failWithException(task *broker.Task, exc *bridge.Exception) {
	c.logger.Error().
		Str("task_id", task.ID()).
		Str("method", task.Method().QualifiedName()).
		Str("exception", exc.Describe()).
		Msg("exception escaped compilation")
	task.Fail("exception throw", false)
}
