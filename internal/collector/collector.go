package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/handiism/osu-collector-dl/internal/collector/dto"
	mhttp "github.com/handiism/osu-collector-dl/internal/http"
	"github.com/handiism/osu-collector-dl/internal/model"
)

// BaseURL is the osu!collector API root.
const BaseURL = "https://osucollector.com/api"

const (
	perPage  = 100
	maxPages = 1000
)

// ErrTooManyPages is returned when the beatmap listing does not terminate.
var ErrTooManyPages = errors.New("collector: beatmap listing exceeded page limit")

// Client reads collections from osu!collector.
type Client struct {
	http    *mhttp.Client
	baseURL string
}

// NewClient creates a Client for the public API.
func NewClient(httpClient *mhttp.Client) *Client {
	return NewClientWithBaseURL(httpClient, BaseURL)
}

// NewClientWithBaseURL creates a Client for another API root.
func NewClientWithBaseURL(httpClient *mhttp.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}

// Info fetches the collection metadata and beatmapset list.
func (c *Client) Info(ctx context.Context, id int) (*dto.JSONCollection, error) {
	var info dto.JSONCollection
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/collections/%d", c.baseURL, id), &info); err != nil {
		return nil, fmt.Errorf("collection %d: %w", id, err)
	}
	return &info, nil
}

// Beatmaps fetches every page of the flattened beatmap listing.
func (c *Client) Beatmaps(ctx context.Context, id int) (*dto.JSONBeatmapPage, error) {
	all := &dto.JSONBeatmapPage{}
	var cursor *int64

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("perPage", strconv.Itoa(perPage))
		if cursor != nil {
			q.Set("cursor", strconv.FormatInt(*cursor, 10))
		}

		var next dto.JSONBeatmapPage
		u := fmt.Sprintf("%s/collections/%d/beatmapsv3?%s", c.baseURL, id, q.Encode())
		if err := c.http.GetJSON(ctx, u, &next); err != nil {
			return nil, fmt.Errorf("collection %d beatmaps: %w", id, err)
		}
		all.Merge(&next)

		if !next.HasMore || next.NextPageCursor == nil {
			return all, nil
		}
		if cursor != nil && *next.NextPageCursor == *cursor {
			return all, nil
		}
		cursor = next.NextPageCursor
	}

	return nil, ErrTooManyPages
}

// Manifest fetches both listings and joins them into a model.Manifest.
func (c *Client) Manifest(ctx context.Context, id int) (*model.Manifest, error) {
	info, err := c.Info(ctx, id)
	if err != nil {
		return nil, err
	}

	listing, err := c.Beatmaps(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.ToManifest(info, listing), nil
}
