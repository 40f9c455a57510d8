package broker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Queue is the compile work queue contract the coordination layer depends
// on. The runtime's broker decides what to compile; this layer only submits
// bootstrap seeds and polls for drainage.
type Queue interface {
	// Submit enqueues a task for compilation.
	Submit(ctx context.Context, task *Task) error

	// Size returns the number of tasks at the given tier that have not
	// yet reached a terminal outcome, counting queued and in-flight work.
	Size(tier Tier) int
}

// Handler executes one compile task synchronously on the calling worker.
type Handler func(ctx context.Context, task *Task)

// ErrClosed is returned by Submit after the broker has been closed.
var ErrClosed = errors.New("broker: closed")

const defaultQueueDepth = 1024

// Broker is an in-memory Queue with a fixed pool of compile workers. Each
// worker represents one dedicated compile slot: it dequeues a task, invokes
// the handler, and blocks for the full duration of the compilation.
type Broker struct {
	handler Handler
	logger  zerolog.Logger
	workers int
	depth   int

	tasks   chan *Task
	pending [TierFullOptimization + 1]atomic.Int64

	startOnce sync.Once
	closeOnce sync.Once
	closeMu   sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithWorkers sets the number of compile workers. Defaults to 1.
func WithWorkers(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithQueueDepth sets the queue capacity. Defaults to 1024.
func WithQueueDepth(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.depth = n
		}
	}
}

// WithBrokerLogger sets the logger used for worker lifecycle events.
func WithBrokerLogger(logger zerolog.Logger) BrokerOption {
	return func(b *Broker) {
		b.logger = logger
	}
}

// NewBroker creates a broker that dispatches tasks to the given handler.
// Call Start to launch the worker pool.
func NewBroker(handler Handler, opts ...BrokerOption) *Broker {
	b := &Broker{
		handler: handler,
		logger:  zerolog.Nop(),
		workers: 1,
		depth:   defaultQueueDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.tasks = make(chan *Task, b.depth)
	return b
}

// Start launches the worker pool. Workers run until Close is called and the
// queue is drained. Start is idempotent.
func (b *Broker) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		for i := 0; i < b.workers; i++ {
			b.wg.Add(1)
			go b.work(ctx, i)
		}
	})
}

func (b *Broker) work(ctx context.Context, id int) {
	defer b.wg.Done()
	b.logger.Debug().Int("worker", id).Msg("compile worker started")
	for task := range b.tasks {
		b.handler(ctx, task)
		b.pendingCounter(task.Tier()).Add(-1)
	}
	b.logger.Debug().Int("worker", id).Msg("compile worker stopped")
}

func (b *Broker) pendingCounter(tier Tier) *atomic.Int64 {
	if tier < 0 || int(tier) >= len(b.pending) {
		tier = TierNone
	}
	return &b.pending[tier]
}

// Submit enqueues a task. It blocks while the queue is full and fails if
// the context is cancelled or the broker is closed.
func (b *Broker) Submit(ctx context.Context, task *Task) error {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	counter := b.pendingCounter(task.Tier())
	counter.Add(1)
	select {
	case b.tasks <- task:
		return nil
	case <-ctx.Done():
		counter.Add(-1)
		return ctx.Err()
	}
}

// Size returns the number of tasks at the given tier that have not yet
// reached a terminal outcome. A task stops counting only after its handler
// returns, so a zero size means every submitted task is terminal - the
// drain condition the bootstrap coordinator polls for.
func (b *Broker) Size(tier Tier) int {
	return int(b.pendingCounter(tier).Load())
}

// Close stops accepting submissions, lets the workers drain the queue, and
// waits for them to exit.
func (b *Broker) Close() {
	b.closeOnce.Do(func() {
		b.closeMu.Lock()
		b.closed = true
		close(b.tasks)
		b.closeMu.Unlock()
		b.wg.Wait()
	})
}
