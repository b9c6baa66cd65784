package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	mhttp "github.com/handiism/osu-collector-dl/internal/http"
	"github.com/handiism/osu-collector-dl/internal/ratelimit"
)

// Quota headers, checked in order.
var quotaHeaders = []string{"X-RateLimit-Remaining", "RateLimit-Remaining"}

// zipMagic starts every .osz archive.
var zipMagic = []byte("PK\x03\x04")

// Source turns a beatmapset id into archive bytes.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Name returns the configuration key of the mirror.
	Name() string

	// DisplayName returns the name shown in logs.
	DisplayName() string

	// Fetch downloads the archive of a beatmapset. Failures are returned as
	// *FetchError, except context cancellation which returns ctx.Err().
	Fetch(ctx context.Context, id int) ([]byte, error)
}

// HTTPSource serves a Variant over HTTP.
//
// HTTPSource holds no mutable state of its own; the injected Limiter is the
// only state shared between concurrent Fetch calls.
type HTTPSource struct {
	variant Variant
	client  *mhttp.Client
	limiter *ratelimit.Limiter
}

// New creates a Source for the variant, gated by limiter.
func New(v Variant, client *mhttp.Client, limiter *ratelimit.Limiter) *HTTPSource {
	return &HTTPSource{
		variant: v,
		client:  client,
		limiter: limiter,
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.variant.Name }

// DisplayName implements Source.
func (s *HTTPSource) DisplayName() string { return s.variant.DisplayName }

// Variant returns the mirror description.
func (s *HTTPSource) Variant() Variant { return s.variant }

// Fetch implements Source.
//
// The limiter is waited on before the request and updated from the
// response headers before Fetch returns, whatever the outcome.
func (s *HTTPSource) Fetch(ctx context.Context, id int) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.client.Fetch(ctx, s.variant.URL(id))
	if resp != nil {
		s.observe(resp)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fe := s.fail(ErrTransport, id, 0, err.Error())
		if resp != nil {
			fe.StatusCode = resp.StatusCode
		}
		return nil, fe
	}

	return s.classify(id, resp)
}

// observe feeds the quota header, if any, to the limiter.
func (s *HTTPSource) observe(resp *mhttp.Response) {
	for _, h := range quotaHeaders {
		v := resp.Header.Get(h)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		s.limiter.Observe(n, resp.Host)
		return
	}
}

func (s *HTTPSource) classify(id int, resp *mhttp.Response) ([]byte, error) {
	msg, payload := s.errorMessage(resp)
	code := resp.StatusCode

	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return nil, s.fail(ErrNotFound, id, code, orStatus(msg, code))
	case code == http.StatusTooManyRequests || code == http.StatusForbidden:
		// Reactive signal: make the next caller wait for the window even if
		// the mirror sent no quota header.
		s.limiter.Observe(0, resp.Host)
		return nil, s.fail(ErrRateLimited, id, code, orStatus(msg, code))
	case code >= 500:
		return nil, s.fail(ErrSourceUnavailable, id, code, orStatus(msg, code))
	case code < 200 || code >= 300:
		return nil, s.fail(ErrMalformedResponse, id, code, orStatus(msg, code))
	}

	if payload {
		if msg == "" {
			msg = "error payload without message"
		}
		if strings.Contains(strings.ToLower(msg), "not found") {
			return nil, s.fail(ErrNotFound, id, code, msg)
		}
		return nil, s.fail(ErrMalformedResponse, id, code, msg)
	}

	if len(resp.Body) == 0 {
		return nil, s.fail(ErrMalformedResponse, id, code, "empty body")
	}
	if !bytes.HasPrefix(resp.Body, zipMagic) {
		return nil, s.fail(ErrMalformedResponse, id, code, "body is not a beatmap archive")
	}

	return resp.Body, nil
}

// errorMessage decodes a structured error payload. payload reports whether
// the response declared JSON content at all.
func (s *HTTPSource) errorMessage(resp *mhttp.Response) (msg string, payload bool) {
	if !strings.Contains(resp.ContentType(), "json") {
		return "", false
	}

	var fields map[string]any
	if err := json.Unmarshal(resp.Body, &fields); err != nil {
		return "undecodable error payload", true
	}

	keys := s.variant.ErrorKeys
	if len(keys) == 0 {
		keys = []string{"error", "message"}
	}
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			if str, ok := v.(string); ok && str != "" {
				return str, true
			}
			if v != nil {
				return fmt.Sprint(v), true
			}
		}
	}

	return "", true
}

func (s *HTTPSource) fail(kind error, id, status int, msg string) *FetchError {
	return &FetchError{
		Kind:       kind,
		Source:     s.variant.DisplayName,
		ID:         id,
		StatusCode: status,
		Message:    msg,
	}
}

func orStatus(msg string, code int) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d", code)
}
