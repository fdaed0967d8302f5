// Package gtasks provides a read-only client for the Google Tasks API v1.
package gtasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://tasks.googleapis.com/tasks/v1"
	userAgent      = "yt-gt-browser/1.0"

	// maxResults is the per-page cap accepted by both list endpoints.
	maxResults = "100"
)

// APIError describes a non-2xx response from the Tasks API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tasks API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tasks API error (status %d): %s", e.StatusCode, e.Message)
}

// HTTPClient is the interface required of the underlying HTTP client.
// The oauth2 client returned by oauth2.Config.Client satisfies it.
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

// Client is a Google Tasks API client.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a Tasks client. The HTTP client should already carry
// OAuth credentials (see oauth2.Config.Client).
func NewClient(httpClient HTTPClient, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListTaskLists returns all of the user's task lists, following pagination
// until exhausted.
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	var lists []TaskList

	pageToken := ""
	for {
		params := url.Values{"maxResults": {maxResults}}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page taskListsResponse
		if err := c.get(ctx, "/users/@me/lists", params, &page); err != nil {
			return nil, fmt.Errorf("listing task lists: %w", err)
		}

		for _, item := range page.Items {
			lists = append(lists, TaskList{ID: item.ID, Title: item.Title})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return lists, nil
}

// ListTasks returns all tasks in the given list, including hidden ones,
// following pagination until exhausted.
func (c *Client) ListTasks(ctx context.Context, list TaskList) ([]Task, error) {
	var tasks []Task

	pageToken := ""
	for {
		params := url.Values{
			"maxResults": {maxResults},
			"showHidden": {"true"},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page tasksResponse
		path := "/lists/" + url.PathEscape(list.ID) + "/tasks"
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, fmt.Errorf("listing tasks in %q: %w", list.Title, err)
		}

		for _, item := range page.Items {
			tasks = append(tasks, Task{
				ID:          item.ID,
				ListID:      list.ID,
				ListName:    list.Title,
				Title:       item.Title,
				Notes:       item.Notes,
				Status:      item.Status,
				Due:         item.Due,
				WebViewLink: item.WebViewLink,
			})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return tasks, nil
}

// FetchAllTasks flattens every list into a single task slice.
// Completed tasks are skipped; they are no longer candidates to watch.
func (c *Client) FetchAllTasks(ctx context.Context) ([]Task, error) {
	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}

	var all []Task
	for _, list := range lists {
		tasks, err := c.ListTasks(ctx, list)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			if task.Status == "completed" {
				continue
			}
			all = append(all, task)
		}
	}

	return all, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}
