// Package ratelimit provides the per-mirror request gate.
//
// A Limiter tracks the quota a mirror reports in its response headers and
// throttles callers once the quota reaches a low-water mark. Throttling lasts
// until the start of the next fixed window (the next UTC minute by default),
// so independent processes hitting the same mirror converge on the same
// reset boundary.
//
//	limiter := ratelimit.New(ratelimit.DefaultOptions(), log)
//
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // ctx cancelled while throttled
//	}
//	resp := doRequest()
//	limiter.Observe(remainingFromHeaders(resp), resp.Host)
//
// Optionally the Limiter also paces requests to a steady rate with
// golang.org/x/time/rate, independent of the mirror's reported quota.
package ratelimit
