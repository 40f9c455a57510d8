package jit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kindling-vm/kindling/object"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantActive bool
	}{
		{name: "default", wantActive: true},
		{name: "compilation disabled", opts: []Option{WithCompilationEnabled(false)}},
		{name: "not selected backend", opts: []Option{WithSelectedBackend(false)}},
		{
			name: "disabled and not selected",
			opts: []Option{WithCompilationEnabled(false), WithSelectedBackend(false)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := &recordingLifecycle{}
			c := New(nil, &fakeBridge{}, append(tt.opts, WithLifecycle(lc))...)
			c.Initialize()
			require.Equal(t, tt.wantActive, c.Initialized())
			if tt.wantActive {
				require.Equal(t, int64(1), lc.deferredLifted.Load())
			} else {
				require.Equal(t, int64(0), lc.deferredLifted.Load())
			}
		})
	}
}

func TestInitializeIsOneShot(t *testing.T) {
	lc := &recordingLifecycle{}
	c := New(nil, &fakeBridge{}, WithLifecycle(lc))
	c.Initialize()
	c.Initialize()
	require.Equal(t, int64(1), lc.deferredLifted.Load())
}

func TestIsTrivialGate(t *testing.T) {
	fb := &fakeBridge{trivial: true}
	c := New(nil, fb)
	m := object.NewClass("Widget").Define("get", "()I", 0)

	// Outside bootstrap the classifier's answer passes through.
	require.True(t, c.IsTrivial(m))

	// During bootstrap nothing is trivial, whatever the classifier says.
	c.bootstrapping.Store(true)
	require.False(t, c.IsTrivial(m))

	c.bootstrapping.Store(false)
	require.True(t, c.IsTrivial(m))
}

func TestPrintTimers(t *testing.T) {
	c := New(nil, &fakeBridge{})
	c.CodeInstallTimer().Add(1500 * time.Millisecond)

	var out bytes.Buffer
	c.PrintTimers(&out)
	require.Contains(t, out.String(), "code install time")
	require.Contains(t, out.String(), "1.500 s")
}

func TestTimer(t *testing.T) {
	var timer Timer
	timer.Add(250 * time.Millisecond)
	timer.Add(750 * time.Millisecond)
	require.Equal(t, time.Second, timer.Elapsed())
	require.Equal(t, 1.0, timer.Seconds())

	stop := timer.Track()
	stop()
	require.GreaterOrEqual(t, timer.Elapsed(), time.Second)
}
