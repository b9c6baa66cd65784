package progress

import (
	"context"
	"sync"
	"sync/atomic"
)

// Snapshot is a consistent-enough view of a Tracker for display.
type Snapshot struct {
	Completed int64 // Beatmaps satisfied so far
	Target    int64 // Beatmaps the run can still satisfy
	Initial   int64 // Target at the start of the run
}

// Abandoned returns the number of beatmaps dropped from the target.
func (s Snapshot) Abandoned() int64 {
	return s.Initial - s.Target
}

// Tracker counts completed beatmaps against a target that can only shrink.
//
// Done is closed the first time completed reaches target, whether through
// Advance or Shrink, so waiters wake on the event instead of polling.
type Tracker struct {
	initial   int64
	completed atomic.Int64
	target    atomic.Int64

	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

// NewTracker creates a Tracker with the given target.
func NewTracker(target int) *Tracker {
	t := &Tracker{
		initial: int64(target),
		done:    make(chan struct{}),
	}
	t.target.Store(int64(target))
	t.check()
	return t
}

// Advance marks n beatmaps as completed and returns the new count.
func (t *Tracker) Advance(n int) int64 {
	c := t.completed.Add(int64(n))
	t.check()
	return c
}

// Shrink removes n beatmaps that can never complete this run from the
// target and returns the new target. The target never drops below zero.
func (t *Tracker) Shrink(n int) int64 {
	for {
		cur := t.target.Load()
		next := cur - int64(n)
		if next < 0 {
			next = 0
		}
		if t.target.CompareAndSwap(cur, next) {
			t.check()
			return next
		}
	}
}

// Completed returns the number of completed beatmaps.
func (t *Tracker) Completed() int64 { return t.completed.Load() }

// Target returns the current target.
func (t *Tracker) Target() int64 { return t.target.Load() }

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Completed: t.completed.Load(),
		Target:    t.target.Load(),
		Initial:   t.initial,
	}
}

// Done is closed once completed reaches target.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until Done is closed or ctx ends.
func (t *Tracker) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) check() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completed.Load() >= t.target.Load() {
		t.once.Do(func() { close(t.done) })
	}
}
