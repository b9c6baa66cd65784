package mirror

import (
	"errors"
	"fmt"
)

// Failure classes. A *FetchError always wraps exactly one of these.
var (
	ErrNotFound          = errors.New("beatmapset not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedResponse = errors.New("malformed response")
	ErrTransport         = errors.New("transport failure")
)

// ErrUnknownMirror is returned by Lookup for names not in Variants.
var ErrUnknownMirror = errors.New("unknown mirror")

// FetchError describes why a mirror could not deliver a beatmapset.
//
// Use errors.Is with the failure classes above, or errors.As to read the
// source and message:
//
//	var fe *mirror.FetchError
//	if errors.As(err, &fe) {
//	    fmt.Println(fe.Source, fe.Message)
//	}
type FetchError struct {
	Kind       error  // One of the failure classes
	Source     string // Display name of the mirror
	ID         int    // Beatmapset id
	StatusCode int    // HTTP status, 0 if no response was received
	Message    string // Mirror-supplied or derived message
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: beatmapset %d: %v", e.Source, e.ID, e.Kind)
	}
	return fmt.Sprintf("%s: beatmapset %d: %v: %s", e.Source, e.ID, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Kind
}
