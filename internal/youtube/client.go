// Package youtube provides a read-only client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	userAgent      = "yt-gt-browser/1.0"

	// maxBatchSize is the videos.list id cap enforced by the API.
	maxBatchSize = 50
)

// APIError describes a non-2xx response from the YouTube API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("youtube API error (status %d): %s", e.StatusCode, e.Message)
}

// HTTPClient is the interface required of the underlying HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBatchSize caps the number of ids per videos.list call. Values
// outside 1..50 are clamped to the API limit.
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		if n < 1 || n > maxBatchSize {
			n = maxBatchSize
		}
		c.batchSize = n
	}
}

// WithRateLimit paces API calls at n requests per second.
func WithRateLimit(n float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(n), 1)
	}
}

// Client is a YouTube Data API client.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	batchSize  int
	limiter    *rate.Limiter
}

// NewClient creates a YouTube client. The HTTP client should already
// carry OAuth credentials (see oauth2.Config.Client).
func NewClient(httpClient HTTPClient, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		batchSize:  maxBatchSize,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// VideoDetails fetches snippet and contentDetails for the given video ids,
// batching requests at the API's id cap. Ids absent from the response
// (deleted or private videos) are absent from the returned map. Result
// order carries no meaning; callers sort.
func (c *Client) VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error) {
	details := make(map[string]VideoDetail, len(ids))

	for start := 0; start < len(ids); start += c.batchSize {
		end := start + c.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		if err := c.fetchBatch(ctx, ids[start:end], details); err != nil {
			return details, err
		}
	}

	return details, nil
}

// fetchBatch issues one videos.list call and merges the items into details.
func (c *Client) fetchBatch(ctx context.Context, batch []string, details map[string]VideoDetail) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := url.Values{
		"part": {"snippet,contentDetails"},
		"id":   {strings.Join(batch, ",")},
	}

	body, err := c.get(ctx, "/videos", params)
	if err != nil {
		return err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parsing videos response: %w", err)
	}

	for _, item := range resp.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

		thumbnail := item.Snippet.Thumbnails.Medium.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Default.URL
		}

		details[item.ID] = VideoDetail{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			ChannelID:    item.Snippet.ChannelID,
			Duration:     item.ContentDetails.Duration,
			PublishedAt:  publishedAt,
			ThumbnailURL: thumbnail,
		}
	}

	return nil
}

// get performs a GET request and returns the raw response body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Error.Message
		}
		return nil, apiErr
	}

	return body, nil
}
