// Package broker holds the compile work queue contract and an in-memory
// reference broker with a fixed worker pool.
package broker

import (
	"sync"

	"github.com/gofrs/uuid"

	"github.com/kindling-vm/kindling/object"
)

// Tier identifies an optimization level for a compile task.
type Tier int

const (
	// TierNone means no compilation.
	TierNone Tier = iota
	// TierBaseline is quick, lightly optimized compilation.
	TierBaseline
	// TierFullOptimization is the highest tier; bootstrap seeds here.
	TierFullOptimization
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierBaseline:
		return "baseline"
	case TierFullOptimization:
		return "full-optimization"
	default:
		return "unknown"
	}
}

// State is the terminal classification of a compile task.
type State int

const (
	// StatePending means the task has not reached a terminal outcome.
	StatePending State = iota
	// StateSucceeded means an artifact was produced and recorded.
	StateSucceeded
	// StateFailed means the task failed; see Task.FailureMessage.
	StateFailed
)

// Artifact is a compiled-code artifact installed for a method. The install
// machinery lives in the runtime; this layer only checks presence and size.
type Artifact struct {
	Size int
	Tier Tier
}

// Task is one unit of compile work: a method, an entry point, and a unique
// id. A task is consumed exactly once by the request handler; its terminal
// outcome is recorded by exactly one worker, but outcome accessors may be
// called concurrently by the coordinator and by tests.
type Task struct {
	id          string
	method      *object.Method
	entryOffset int
	tier        Tier
	hotness     int
	reason      string

	mu             sync.Mutex
	state          State
	artifact       *Artifact
	inlinedBytes   int64
	failureMessage string
	retryable      bool
}

// NewTask creates a pending task for the given method and entry offset,
// assigning it a unique id.
func NewTask(m *object.Method, entryOffset int, tier Tier, hotness int, reason string) *Task {
	return &Task{
		id:          uuid.Must(uuid.NewV4()).String(),
		method:      m,
		entryOffset: entryOffset,
		tier:        tier,
		hotness:     hotness,
		reason:      reason,
	}
}

// ID returns the task's unique id.
func (t *Task) ID() string { return t.id }

// Method returns the method to compile.
func (t *Task) Method() *object.Method { return t.method }

// EntryOffset returns the entry point: object.NormalEntry or an OSR offset.
func (t *Task) EntryOffset() int { return t.entryOffset }

// IsOSR reports whether the task compiles from an on-stack-replacement point.
func (t *Task) IsOSR() bool { return t.entryOffset != object.NormalEntry }

// Tier returns the task's optimization tier.
func (t *Task) Tier() Tier { return t.tier }

// Hotness returns the invocation count that triggered the task.
func (t *Task) Hotness() int { return t.hotness }

// Reason returns the submission reason tag, e.g. "bootstrap".
func (t *Task) Reason() string { return t.reason }

// State returns the task's current terminal classification.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// InstallArtifact records the artifact the compiler produced. Called from
// managed code via the bridge while the compile call is still in flight.
func (t *Task) InstallArtifact(a *Artifact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.artifact = a
}

// Artifact returns the installed artifact, or nil if none was produced.
func (t *Task) Artifact() *Artifact {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.artifact
}

// Succeed records a successful outcome along with the inlined bytecode size.
func (t *Task) Succeed(inlinedBytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateSucceeded
	t.inlinedBytes = inlinedBytes
}

// Fail records a failed outcome with a message and a retry recommendation.
func (t *Task) Fail(message string, retryable bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateFailed
	t.failureMessage = message
	t.retryable = retryable
}

// InlinedBytes returns the inlined bytecode size recorded on success.
func (t *Task) InlinedBytes() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inlinedBytes
}

// FailureMessage returns the failure message, or "" if the task did not fail.
func (t *Task) FailureMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failureMessage
}

// Retryable reports whether resubmitting a failed task may succeed.
func (t *Task) Retryable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retryable
}
