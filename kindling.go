// Package kindling wires a managed runtime to an external, pluggable
// optimizing compiler. It bundles the in-memory compile broker with the
// JIT coordination layer so a runtime can bring the whole system up with
// one call:
//
//	sys := kindling.NewSystem(myBridge, kindling.WithWorkers(4))
//	sys.Start(ctx)
//	defer sys.Close()
//	if err := sys.Bootstrap(ctx); err != nil {
//		// seed submissions failed or the context was cancelled
//	}
//
// Runtimes that bring their own broker can use the jit package directly.
package kindling

import (
	"context"

	"github.com/kindling-vm/kindling/bridge"
	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/jit"
)

// Option configures a System.
type Option func(*options)

type options struct {
	jitOpts    []jit.Option
	brokerOpts []broker.BrokerOption
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithWorkers sets the number of compile workers in the bundled broker.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.brokerOpts = append(o.brokerOpts, broker.WithWorkers(n))
	}
}

// WithBrokerOptions passes options through to the bundled broker.
func WithBrokerOptions(opts ...broker.BrokerOption) Option {
	return func(o *options) {
		o.brokerOpts = append(o.brokerOpts, opts...)
	}
}

// WithCompilerOptions passes options through to the jit.Compiler.
func WithCompilerOptions(opts ...jit.Option) Option {
	return func(o *options) {
		o.jitOpts = append(o.jitOpts, opts...)
	}
}

// System is a Compiler wired to the in-memory reference broker. The broker's
// workers dispatch every dequeued task to the compiler's request handler.
type System struct {
	Compiler *jit.Compiler
	Broker   *broker.Broker
}

// NewSystem creates a System around the given bridge. Call Start before
// Bootstrap so workers are available to drain the seed set.
func NewSystem(b bridge.Bridge, opts ...Option) *System {
	o := collectOptions(opts...)
	sys := &System{}
	sys.Broker = broker.NewBroker(func(ctx context.Context, task *broker.Task) {
		sys.Compiler.CompileMethod(ctx, task)
	}, o.brokerOpts...)
	sys.Compiler = jit.New(sys.Broker, b, o.jitOpts...)
	return sys
}

// Start activates the compiler and launches the broker's worker pool.
func (s *System) Start(ctx context.Context) {
	s.Compiler.Initialize()
	s.Broker.Start(ctx)
}

// Bootstrap runs the compiler's one-time warm-up phase.
func (s *System) Bootstrap(ctx context.Context) error {
	return s.Compiler.Bootstrap(ctx)
}

// Close shuts down the broker and waits for in-flight compilations.
func (s *System) Close() {
	s.Broker.Close()
}
