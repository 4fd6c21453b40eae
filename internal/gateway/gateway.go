package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tickmate/internal/logger"
	"tickmate/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The list view is fixed to active tasks ordered by due date; the
// backend hides completed tasks from it.
const listSort = "dueDate,asc"
const listStatusFilter = "PENDING,IN_PROGRESS"

// Client talks to the TickMate backend. It never retries: retry policy
// belongs to the caching layer in front of it.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: base URL %q is not absolute", baseURL)
	}
	return &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL is part of the list cache key so a reconfigured backend
// invalidates entries cached against the old one.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPage fetches one page of active tasks sorted by due date.
func (c *Client) ListPage(ctx context.Context, page, size int) (model.TaskPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", listSort)
	q.Set("status", listStatusFilter)

	var result model.TaskPage
	err := c.do(ctx, http.MethodGet, "/api/tasks?"+q.Encode(), nil, &result)
	if err != nil {
		return model.TaskPage{}, err
	}
	return result, nil
}

// CreateTask sends the full draft. An unset due date goes over the
// wire as an empty string, matching what the backend expects.
func (c *Client) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	var result model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", draft, &result)
	if err != nil {
		return model.Task{}, err
	}
	return result, nil
}

// UpdateTask sends only the fields set on upd.
func (c *Client) UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error) {
	var result model.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), upd, &result)
	if err != nil {
		return model.Task{}, err
	}
	return result, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	requestID := uuid.NewString()
	fullURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("gateway: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("HTTP_OUT: transport failure", err,
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.String("request_id", requestID))
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		logger.Warn("HTTP_OUT: non-success response",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.String("request_id", requestID),
			zap.Int("http_status", resp.StatusCode),
			zap.Duration("ms", time.Since(start)))
		return &FetchError{Op: method + " " + path, Status: resp.StatusCode, URL: fullURL}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gateway: decoding %s %s: %w", method, path, err)
		}
	}

	logger.RequestInfo(method, fullURL, requestID,
		zap.Int("http_status", resp.StatusCode),
		zap.Duration("ms", time.Since(start)))
	return nil
}
