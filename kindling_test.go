package kindling

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kindling-vm/kindling/bridge"
	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/jit"
	"github.com/kindling-vm/kindling/object"
)

type receiver struct{}

func (receiver) Type() object.Type { return object.COMPILER }

func (receiver) Inspect() string { return "test-compiler" }

type wrapper struct {
	method *object.Method
}

func (w *wrapper) Type() object.Type { return object.METHOD_WRAPPER }

func (w *wrapper) Inspect() string { return w.method.QualifiedName() }

// testCompiler compiles everything successfully except methods named in
// failing, which report an explicit retryable bailout.
type testCompiler struct {
	failing  map[string]bool
	compiles atomic.Int64
}

func (tc *testCompiler) EnsureInitialized(ctx context.Context) *bridge.Exception {
	return nil
}

func (tc *testCompiler) CompilerInstance(ctx context.Context) bridge.Outcome {
	return bridge.ValueOutcome(receiver{})
}

func (tc *testCompiler) ResolveMethod(ctx context.Context, m *object.Method) bridge.Outcome {
	return bridge.ValueOutcome(&wrapper{method: m})
}

func (tc *testCompiler) Compile(ctx context.Context, recv, method object.Object, entryOffset int, task *broker.Task) (*bridge.CompileOutput, *bridge.Exception) {
	tc.compiles.Add(1)
	if tc.failing[task.Method().Name()] {
		return &bridge.CompileOutput{FailureMessage: "bailout", Retry: true}, nil
	}
	task.InstallArtifact(&broker.Artifact{Size: 100, Tier: task.Tier()})
	return &bridge.CompileOutput{InlinedBytes: 7}, nil
}

func (tc *testCompiler) IsTrivial(m *object.Method) bool {
	return false
}

func TestSystemBootstrap(t *testing.T) {
	ctx := context.Background()
	tc := &testCompiler{}
	sys := NewSystem(tc,
		WithWorkers(2),
		WithCompilerOptions(jit.WithPollInterval(time.Millisecond)),
	)
	sys.Start(ctx)
	defer sys.Close()

	require.Nil(t, sys.Bootstrap(ctx))

	// The base object type has four eligible seed methods.
	require.Equal(t, int64(4), sys.Compiler.MethodsCompiled())
	require.Equal(t, int64(4), tc.compiles.Load())
	require.False(t, sys.Compiler.Bootstrapping())
	require.Equal(t, 0, sys.Broker.Size(broker.TierFullOptimization))
}

func TestSystemBootstrapWithFailures(t *testing.T) {
	ctx := context.Background()
	tc := &testCompiler{failing: map[string]bool{"equals": true, "finalize": true}}
	sys := NewSystem(tc,
		WithWorkers(4),
		WithCompilerOptions(jit.WithPollInterval(time.Millisecond)),
	)
	sys.Start(ctx)
	defer sys.Close()

	// Individual seed failures do not abort bootstrap.
	require.Nil(t, sys.Bootstrap(ctx))
	require.Equal(t, int64(2), sys.Compiler.MethodsCompiled())
	require.Equal(t, int64(4), tc.compiles.Load())
}

func TestSystemVerboseBootstrap(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	sys := NewSystem(&testCompiler{},
		WithCompilerOptions(
			jit.WithPollInterval(time.Millisecond),
			jit.WithVerboseBootstrap(true),
			jit.WithProgressWriter(&out),
		),
	)
	sys.Start(ctx)
	defer sys.Close()

	require.Nil(t, sys.Bootstrap(ctx))
	require.Contains(t, out.String(), "Bootstrapping kindling")
	require.Contains(t, out.String(), "(compiled 4 methods)")
}

func TestSystemBootstrapAfterClose(t *testing.T) {
	ctx := context.Background()
	sys := NewSystem(&testCompiler{})
	sys.Start(ctx)
	sys.Close()

	// Every seed submission fails; the aggregate error reports them all.
	err := sys.Bootstrap(ctx)
	require.NotNil(t, err)
	require.ErrorIs(t, err, broker.ErrClosed)
	require.Equal(t, int64(0), sys.Compiler.MethodsCompiled())
}
