// Package http provides the HTTP client shared by the manifest client and
// the download mirrors.
//
// The Client in this package handles:
//   - User-Agent headers identifying osu-collector-dl to mirror operators
//   - Timeout handling
//   - Raw responses with headers, for quota observation and error decoding
//   - JSON decoding of API responses
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch a JSON document
//	var info dto.Collection
//	err := client.GetJSON(ctx, "https://osucollector.com/api/collections/1", &info)
//
//	// Fetch raw bytes regardless of status, inspecting headers afterwards
//	resp, err := client.Fetch(ctx, "https://catboy.best/d/1")
//	fmt.Println(resp.StatusCode, resp.Header.Get("X-RateLimit-Remaining"))
package http
