package jit

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kindling-vm/kindling/broker"
	"github.com/kindling-vm/kindling/object"
)

// bootstrapHotness is the synthetic invocation count attached to seed tasks.
const bootstrapHotness = 10

// Bootstrap warms up and sanity-checks the pluggable compiler by compiling
// a fixed seed set before normal operation begins: every non-native,
// non-static, non-initializer method of the base object type is submitted
// at the highest tier, and Bootstrap polls until the queue drains.
//
// Individual seed compile failures are recorded as ordinary compile
// failures and do not abort bootstrap; it completes when the queue is
// empirically drained. Submission errors are aggregated and returned after
// the drain. Bootstrap returns early only in interpreter-only mode or when
// the context is cancelled.
func (c *Compiler) Bootstrap(ctx context.Context) error {
	if c.interpreterOnly {
		// Nothing to warm up in purely interpreted mode.
		return nil
	}

	// Suspend eager compile-everything so the compiler's bootstrap is not
	// starved by an unrelated eager-compilation workload.
	if c.eagerCompileAll != nil {
		prev := c.eagerCompileAll.Swap(false)
		defer c.eagerCompileAll.Store(prev)
	}

	c.bootstrapping.Store(true)
	defer c.bootstrapping.Store(false)

	start := time.Now()
	if c.verbose {
		fmt.Fprint(c.progress, "Bootstrapping kindling")
	}

	var errs *multierror.Error
	submitted := 0
	for _, m := range object.BaseClass().Methods() {
		if m.IsNative() || m.IsStatic() || m.IsInitializer() {
			continue
		}
		task := broker.NewTask(m, object.NormalEntry, broker.TierFullOptimization, bootstrapHotness, "bootstrap")
		if err := c.queue.Submit(ctx, task); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("submit %s: %w", m.QualifiedName(), err))
			continue
		}
		submitted++
	}
	if submitted == 0 {
		// Nothing made it into the queue; the startup race guard below
		// would otherwise wait forever for a request that never comes.
		c.finishBootstrap(start)
		return errs.ErrorOrNil()
	}

	var qsize int
	firstRound := true
	dots := int64(0)
	for {
		// Loop until there is something in the queue. On the first round an
		// empty queue is not proof of drainage: a submitted task may not be
		// registered as pending yet, so wait until at least one request has
		// been handled before trusting a zero size.
		for {
			if err := sleepCtx(ctx, c.pollInterval); err != nil {
				return multierror.Append(errs, err).ErrorOrNil()
			}
			qsize = c.queue.Size(broker.TierFullOptimization)
			if !firstRound || qsize != 0 || c.firstRequestHandled.Load() {
				break
			}
		}
		firstRound = false
		if c.verbose {
			for dots < c.methodsCompiled.Load()/100 {
				dots++
				fmt.Fprint(c.progress, ".")
			}
		}
		if qsize == 0 {
			break
		}
	}

	c.finishBootstrap(start)
	return errs.ErrorOrNil()
}

func (c *Compiler) finishBootstrap(start time.Time) {
	c.bootstrapping.Store(false)
	if c.verbose {
		fmt.Fprintf(c.progress, " in %d ms (compiled %d methods)\n",
			time.Since(start).Milliseconds(), c.methodsCompiled.Load())
	}
	c.lifecycle.BootstrapFinished()
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
