// Package bridge asks the host browser to clear recent browsing data.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Clearer removes browsing data created after since.
type Clearer interface {
	ClearData(ctx context.Context, since time.Time) error
	Stats() StatsSnapshot
	Endpoint() string
}

// ClearRequest is the message the host expects.
type ClearRequest struct {
	Type      string          `json:"type"`
	Since     int64           `json:"since"`
	DataTypes map[string]bool `json:"dataTypes"`
}

type clearResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

const MessageType = "CLEAR_DATA"

// DefaultDataTypes is everything except cookies, so sessions survive.
func DefaultDataTypes() map[string]bool {
	return map[string]bool{
		"appcache":       true,
		"cache":          true,
		"cacheStorage":   true,
		"cookies":        false,
		"downloads":      true,
		"fileSystems":    true,
		"formData":       true,
		"history":        true,
		"indexedDB":      true,
		"localStorage":   true,
		"passwords":      true,
		"serviceWorkers": true,
		"webSQL":         true,
	}
}

// Client posts clear requests to a host bridge over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	stats      *LatencyStats
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats: NewLatencyStats(time.Hour),
	}
}

// ClearData sends one CLEAR_DATA request. 429 and 5xx responses come back
// as *RetryableError.
func (c *Client) ClearData(ctx context.Context, since time.Time) error {
	start := time.Now()
	defer func() { c.stats.Record(time.Since(start).Milliseconds()) }()

	body, err := json.Marshal(ClearRequest{
		Type:      MessageType,
		Since:     since.UnixMilli(),
		DataTypes: DefaultDataTypes(),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var out clearResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		if out.Error != "" {
			return fmt.Errorf("bridge reported failure: %s", out.Error)
		}
		return fmt.Errorf("bridge reported failure")
	}
	return nil
}

func (c *Client) Endpoint() string {
	return c.baseURL + "/clear-data"
}

func (c *Client) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
// RetryAfter is the wait the host asked for, zero when it named none.
type RetryableError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// parseRetryAfter reads a Retry-After value in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
