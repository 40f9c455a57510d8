package jit

import (
	"sync/atomic"
	"time"
)

// Timer accumulates wall-clock time across operations, e.g. the total time
// spent installing compiled artifacts into executable memory. Safe for
// concurrent use.
type Timer struct {
	nanos atomic.Int64
}

// Add accumulates the given duration.
func (t *Timer) Add(d time.Duration) {
	t.nanos.Add(int64(d))
}

// Track starts timing and returns a function that stops timing and
// accumulates the elapsed duration:
//
//	defer timer.Track()()
func (t *Timer) Track() func() {
	start := time.Now()
	return func() {
		t.Add(time.Since(start))
	}
}

// Elapsed returns the total accumulated duration.
func (t *Timer) Elapsed() time.Duration {
	return time.Duration(t.nanos.Load())
}

// Seconds returns the total accumulated time in seconds.
func (t *Timer) Seconds() float64 {
	return t.Elapsed().Seconds()
}
