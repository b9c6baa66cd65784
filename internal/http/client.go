package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent is sent with every request.
const UserAgent = "osu-collector-dl/1.0.0"

// Client wraps HTTP operations with osu-collector-dl specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Whole-body responses that keep status, headers and the final host
//
// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 5 minute timeout (beatmap archives can be large on slow mirrors)
//   - UserAgent User-Agent header
func NewClient() *Client {
	return NewClientWith(&http.Client{Timeout: 5 * time.Minute})
}

// NewClientWith wraps an existing *http.Client, e.g. one returned by
// httptest.Server.Client().
func NewClientWith(hc *http.Client) *Client {
	return &Client{
		httpClient: hc,
		userAgent:  UserAgent,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the complete response body.
	Body []byte

	// Host is the host that served the final response, after redirects.
	Host string
}

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Fetch performs a GET request and reads the whole body.
//
// Unlike Get, Fetch does not treat non-200 statuses as errors: callers that
// classify failures themselves (mirrors) need the status, the headers and
// the body of every response. An error is returned only when no response
// was received or the body could not be read.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		out.Host = resp.Request.URL.Hostname()
	}

	out.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}

	return out, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return resp.Body, nil
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// Example:
//
//	var info dto.Collection
//	err := client.GetJSON(ctx, url, &info)
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	return nil
}
