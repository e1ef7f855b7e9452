package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGovernor_RejectsExcessAndRecoversAfterWindow(t *testing.T) {
	g := NewGovernor(Config{Window: 60 * time.Second, Limit: 100})

	for i := 0; i < 100; i++ {
		d := g.Admit("client-1", t0.Add(time.Duration(i)*100*time.Millisecond))
		require.True(t, d.Allowed, "request %d", i+1)
		require.Equal(t, 100-(i+1), d.Remaining)
	}

	rejectedAt := t0.Add(10 * time.Second)
	d := g.Admit("client-1", rejectedAt)
	require.False(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)
	require.Equal(t, 50*time.Second, d.RetryAfter)
	require.Equal(t, t0.Add(time.Minute), d.ResetAt)

	err := d.Err("client-1")
	require.ErrorIs(t, err, ErrRateLimited)
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Positive(t, rejected.RetryAfter)

	d = g.Admit("client-1", t0.Add(time.Minute))
	require.True(t, d.Allowed)
	require.Equal(t, 99, d.Remaining)
}

func TestGovernor_ClientsAreIndependent(t *testing.T) {
	g := NewGovernor(Config{Window: time.Minute, Limit: 2})

	require.True(t, g.Admit("a", t0).Allowed)
	require.True(t, g.Admit("a", t0).Allowed)
	require.False(t, g.Admit("a", t0).Allowed)

	require.True(t, g.Admit("b", t0).Allowed)
	require.Equal(t, 2, g.Tracked())
}

func TestGovernor_RetryAfterBounds(t *testing.T) {
	g := NewGovernor(Config{Window: time.Minute, Limit: 1})

	require.True(t, g.Admit("c", t0).Allowed)

	tests := []struct {
		name string
		at   time.Time
	}{
		{"same instant", t0},
		{"just before reset", t0.Add(time.Minute - time.Nanosecond)},
		{"clock stepped backwards", t0.Add(-time.Hour)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := g.Admit("c", tc.at)
			require.False(t, d.Allowed)
			require.Positive(t, d.RetryAfter)
			require.LessOrEqual(t, d.RetryAfter, time.Minute)
		})
	}
}

func TestGovernor_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	const limit = 100
	g := NewGovernor(Config{Window: time.Minute, Limit: limit})

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Admit("hot-client", t0).Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(limit), admitted.Load())
}

func TestGovernor_ConcurrentSweepDoesNotLeakRequests(t *testing.T) {
	const limit = 50
	g := NewGovernor(Config{Window: time.Minute, Limit: limit, IdleFactor: 1})

	var admitted atomic.Int32
	var wg sync.WaitGroup
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				// Counters are touched at t0, so a sweep at t0 evicts nothing.
				g.Sweep(t0)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Admit("busy", t0).Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	close(stop)

	require.Equal(t, int32(limit), admitted.Load())
}

func TestGovernor_SweepEvictsIdleCounters(t *testing.T) {
	g := NewGovernor(Config{Window: time.Minute, Limit: 10, IdleFactor: 2})

	for i := 0; i < 20; i++ {
		g.Admit(fmt.Sprintf("idle-%d", i), t0)
	}
	g.Admit("active", t0.Add(90*time.Second))
	require.Equal(t, 21, g.Tracked())

	removed := g.Sweep(t0.Add(2 * time.Minute))
	require.Equal(t, 20, removed)
	require.Equal(t, 1, g.Tracked())

	// An evicted client starts over with a full budget.
	d := g.Admit("idle-3", t0.Add(3*time.Minute))
	require.True(t, d.Allowed)
	require.Equal(t, 9, d.Remaining)
}

func TestConfig_Defaults(t *testing.T) {
	g := NewGovernor(Config{})
	cfg := g.Config()
	require.Equal(t, DefaultWindow, cfg.Window)
	require.Equal(t, DefaultLimit, cfg.Limit)
	require.Equal(t, DefaultIdleFactor, cfg.IdleFactor)
}
