package ratelimit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Limiter.
type Options struct {
	// LowWater is the remaining quota at or below which the limiter throttles.
	// Default: 1
	LowWater int

	// BulkLowWater replaces LowWater when the response was served by one of
	// BulkHosts. Bulk storage nodes count quota faster, so they are given a
	// larger margin.
	// Default: 5
	BulkLowWater int

	// BulkHosts lists host names (or host suffixes) of bulk storage origins.
	BulkHosts []string

	// Window is the fixed quota window; throttling lasts until the next
	// multiple of Window.
	// Default: 1 minute
	Window time.Duration

	// RequestsPerSecond paces requests to a steady rate. Zero disables pacing.
	RequestsPerSecond float64
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		LowWater:     1,
		BulkLowWater: 5,
		Window:       time.Minute,
	}
}

// State is a point-in-time view of a Limiter.
type State struct {
	// Remaining is the last observed quota, -1 if none was observed yet.
	Remaining int

	// ResetAt is when throttling ends. Zero when the limiter is open.
	ResetAt time.Time
}

// Throttled reports whether callers arriving at now would be suspended.
func (s State) Throttled(now time.Time) bool {
	return !s.ResetAt.IsZero() && s.ResetAt.After(now)
}

// Limiter gates requests to one mirror. It is safe for concurrent use.
type Limiter struct {
	opts Options
	pace *rate.Limiter
	now  func() time.Time
	log  *slog.Logger

	mu        sync.RWMutex
	remaining int
	resetAt   time.Time
}

// New creates a Limiter. One Limiter exists per mirror for the whole run.
func New(opts Options, log *slog.Logger) *Limiter {
	def := DefaultOptions()
	if opts.LowWater <= 0 {
		opts.LowWater = def.LowWater
	}
	if opts.BulkLowWater <= 0 {
		opts.BulkLowWater = def.BulkLowWater
	}
	if opts.Window <= 0 {
		opts.Window = def.Window
	}

	l := &Limiter{
		opts:      opts,
		now:       time.Now,
		log:       log.With(slog.String("item", "RateLimiter")),
		remaining: -1,
	}
	if opts.RequestsPerSecond > 0 {
		l.pace = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return l
}

// Wait blocks while the limiter is throttled, then waits for a pacing token
// if pacing is enabled.
//
// Each suspension is a single timer that fires at the recorded reset time.
// If another caller pushed the reset time further while this one slept, Wait
// sleeps again until the new deadline. Wait returns ctx.Err() if the context
// ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.RLock()
		resetAt := l.resetAt
		l.mu.RUnlock()

		d := resetAt.Sub(l.now())
		if resetAt.IsZero() || d <= 0 {
			break
		}

		l.log.Debug("Throttled", slog.Time("reset_at", resetAt), slog.Duration("wait", d))

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.reopen()

	if l.pace != nil {
		return l.pace.Wait(ctx)
	}

	return nil
}

// reopen clears an elapsed reset time.
func (l *Limiter) reopen() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.resetAt.IsZero() && !l.resetAt.After(l.now()) {
		l.resetAt = time.Time{}
	}
}

// Observe records the quota reported by a response.
//
// host is the origin that served the response; it selects the bulk
// low-water mark when it matches Options.BulkHosts. When the quota is at or
// below the mark, the limiter throttles until the start of the next window.
// A quota above the mark never lifts an active throttle; Wait reopens the
// limiter once resetAt passes.
func (l *Limiter) Observe(remaining int, host string) {
	mark := l.opts.LowWater
	if l.isBulk(host) {
		mark = l.opts.BulkLowWater
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.remaining = remaining
	if remaining > mark {
		return
	}

	next := l.nextWindow()
	if next.After(l.resetAt) {
		l.resetAt = next
		l.log.Info("Quota low, throttling",
			slog.Int("remaining", remaining),
			slog.String("host", host),
			slog.Time("reset_at", next),
		)
	}
}

// State returns the current quota view.
func (l *Limiter) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return State{Remaining: l.remaining, ResetAt: l.resetAt}
}

// nextWindow returns the start of the window after the current one.
// Must be called with l.mu held.
func (l *Limiter) nextWindow() time.Time {
	return l.now().UTC().Truncate(l.opts.Window).Add(l.opts.Window)
}

func (l *Limiter) isBulk(host string) bool {
	if host == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, h := range l.opts.BulkHosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
