// Package mirror implements the beatmap download mirrors.
//
// Every mirror is described by a Variant (display name, endpoint, error
// payload format, bulk storage hosts) and served by the same HTTPSource,
// which waits on the mirror's rate limiter, performs the request, records
// the quota reported by the response and classifies the outcome.
//
// # Selecting a Mirror
//
//	v, err := mirror.Lookup("catboy")
//	if err != nil {
//	    log.Fatal(err) // unknown mirror name
//	}
//	src := mirror.New(v, http.NewClient(), limiter)
//	data, err := src.Fetch(ctx, 1030499)
//
// # Failures
//
// Fetch returns a *FetchError wrapping one of ErrNotFound, ErrRateLimited,
// ErrSourceUnavailable, ErrMalformedResponse or ErrTransport:
//
//	if errors.Is(err, mirror.ErrNotFound) {
//	    // the mirror does not have this beatmapset
//	}
//
// # Adding a Mirror
//
// Declare a Variant in its own file and append it to Variants.
package mirror
