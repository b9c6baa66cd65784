package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLimiter_WaitOpenReturnsImmediately(t *testing.T) {
	l := New(DefaultOptions(), discardLogger())
	l.Observe(10, "catboy.best")

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 10, l.State().Remaining)
	assert.False(t, l.State().Throttled(time.Now()))
}

func TestLimiter_WaitBlocksUntilReset(t *testing.T) {
	l := New(Options{Window: 200 * time.Millisecond}, discardLogger())
	l.Observe(1, "")

	state := l.State()
	require.True(t, state.Throttled(time.Now()))

	require.NoError(t, l.Wait(context.Background()))
	assert.False(t, time.Now().Before(state.ResetAt), "Wait returned before reset")
	assert.True(t, l.State().ResetAt.IsZero(), "limiter should reopen after reset")
}

func TestLimiter_ResetAlignsToWindow(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 30, 17, 0, time.UTC)
	l := New(DefaultOptions(), discardLogger())
	l.now = func() time.Time { return fixed }

	l.Observe(0, "")
	assert.Equal(t, time.Date(2024, 3, 1, 12, 31, 0, 0, time.UTC), l.State().ResetAt)
}

func TestLimiter_BulkHostUsesLargerMark(t *testing.T) {
	l := New(Options{BulkHosts: []string{"storage.example"}}, discardLogger())

	l.Observe(4, "mirror.example")
	assert.False(t, l.State().Throttled(time.Now()), "4 is above the default mark")

	l.Observe(4, "eu.storage.example")
	assert.True(t, l.State().Throttled(time.Now()), "4 is below the bulk mark")

	l.Observe(6, "storage.example")
	assert.True(t, l.State().Throttled(time.Now()), "a later quota must not lift the throttle")
}

func TestLimiter_BulkMarkOnFreshLimiter(t *testing.T) {
	l := New(Options{BulkHosts: []string{"storage.example"}}, discardLogger())

	l.Observe(6, "storage.example")
	assert.False(t, l.State().Throttled(time.Now()), "6 is above the bulk mark")
}

func TestLimiter_HigherQuotaKeepsThrottleUntilReset(t *testing.T) {
	type quota struct {
		remaining int
		host      string
	}
	tests := []struct {
		name  string
		first quota
		later quota
	}{
		{"late response from same host", quota{0, "catboy.best"}, quota{3, "catboy.best"}},
		{"main host after bulk host", quota{2, "central.catboy.best"}, quota{40, "catboy.best"}},
	}

	now := time.Date(2024, 3, 1, 12, 30, 17, 0, time.UTC)
	reset := time.Date(2024, 3, 1, 12, 31, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(Options{BulkHosts: []string{"central.catboy.best"}}, discardLogger())
			l.now = func() time.Time { return now }

			l.Observe(tt.first.remaining, tt.first.host)
			require.True(t, l.State().Throttled(now))

			l.Observe(tt.later.remaining, tt.later.host)
			state := l.State()
			assert.Equal(t, tt.later.remaining, state.Remaining)
			assert.Equal(t, reset, state.ResetAt)
			assert.True(t, state.Throttled(reset.Add(-time.Nanosecond)))
			assert.False(t, state.Throttled(reset))
		})
	}
}

func TestLimiter_ReopensAfterReset(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 59, 990_000_000, time.UTC)
	l := New(DefaultOptions(), discardLogger())
	l.now = func() time.Time { return now }

	l.Observe(0, "")
	l.Observe(30, "")

	// The window has passed by the time Wait runs.
	now = now.Add(20 * time.Millisecond)
	require.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.State().ResetAt.IsZero())
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := New(Options{Window: time.Hour}, discardLogger())
	l.Observe(0, "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_ConcurrentWaitersShareThrottle(t *testing.T) {
	l := New(Options{Window: 150 * time.Millisecond}, discardLogger())
	l.Observe(1, "")
	resetAt := l.State().ResetAt

	var wg sync.WaitGroup
	released := make([]time.Time, 8)
	for i := range released {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, l.Wait(context.Background()))
			released[i] = time.Now()
		}(i)
	}
	wg.Wait()

	for i, at := range released {
		assert.False(t, at.Before(resetAt), "waiter %d released early", i)
	}
}

func TestLimiter_Pacing(t *testing.T) {
	l := New(Options{RequestsPerSecond: 20}, discardLogger())

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	// First token is immediate, the next two are 50ms apart.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
