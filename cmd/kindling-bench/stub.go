package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kindling-vm/kindling/bridge"
	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/jit"
	"github.com/kindling-vm/kindling/object"
)

func parseLatency(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid latency %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("latency must not be negative")
	}
	return d, nil
}

type compilerReceiver struct{}

func (compilerReceiver) Type() object.Type { return object.COMPILER }

func (compilerReceiver) Inspect() string { return "stub-compiler" }

type methodWrapper struct {
	method *object.Method
}

func (w *methodWrapper) Type() object.Type { return object.METHOD_WRAPPER }

func (w *methodWrapper) Inspect() string { return w.method.QualifiedName() }

// stubBridge is a synthetic compiler backend: it sleeps for a configured
// latency per compile and produces failures or managed exceptions at the
// configured rates.
type stubBridge struct {
	latency       time.Duration
	failureRate   float64
	exceptionRate float64

	mu   sync.Mutex
	rng  *rand.Rand
	recv compilerReceiver

	failures   atomic.Int64
	exceptions atomic.Int64

	installTimer *jit.Timer
}

func newStubBridge(latency time.Duration, failureRate, exceptionRate float64) *stubBridge {
	return &stubBridge{
		latency:       latency,
		failureRate:   failureRate,
		exceptionRate: exceptionRate,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *stubBridge) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *stubBridge) EnsureInitialized(ctx context.Context) *bridge.Exception {
	return nil
}

func (s *stubBridge) CompilerInstance(ctx context.Context) bridge.Outcome {
	return bridge.ValueOutcome(s.recv)
}

func (s *stubBridge) ResolveMethod(ctx context.Context, m *object.Method) bridge.Outcome {
	return bridge.ValueOutcome(&methodWrapper{method: m})
}

func (s *stubBridge) Compile(ctx context.Context, receiver, method object.Object, entryOffset int, task *broker.Task) (*bridge.CompileOutput, *bridge.Exception) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	switch roll := s.roll(); {
	case roll < s.exceptionRate:
		s.exceptions.Add(1)
		return nil, bridge.NewException("CompilerError", "synthetic exception compiling %s", method.Inspect()).
			WithStack([]bridge.StackFrame{{Function: "StubCompiler.compileMethod"}})
	case roll < s.exceptionRate+s.failureRate:
		s.failures.Add(1)
		return &bridge.CompileOutput{FailureMessage: "synthetic bailout", Retry: true}, nil
	}
	if s.installTimer != nil {
		defer s.installTimer.Track()()
	}
	task.InstallArtifact(&broker.Artifact{Size: 64 + len(method.Inspect()), Tier: task.Tier()})
	return &bridge.CompileOutput{InlinedBytes: int64(8 * len(method.Inspect()))}, nil
}

// SetInstallTimer directs synthetic install time into the given timer.
func (s *stubBridge) SetInstallTimer(t *jit.Timer) {
	s.installTimer = t
}

func (s *stubBridge) IsTrivial(m *object.Method) bool {
	return false
}

// Failures returns the number of synthetic explicit failures produced.
func (s *stubBridge) Failures() int64 { return s.failures.Load() }

// Exceptions returns the number of synthetic exceptions produced.
func (s *stubBridge) Exceptions() int64 { return s.exceptions.Load() }
