package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response body is read for detail
const maxErrorBody = 64 * 1024

// Client handles communication with the agent backend.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new agent client. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts content to /message and returns the agent's reply
func (c *Client) Send(ctx context.Context, content string) (string, error) {
	jsonData, err := json.Marshal(MessageRequest{Content: content})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp MessageResponse
	if err := c.do(ctx, "send", http.MethodPost, "/message", jsonData, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// FetchProfile returns the agent profile from /being
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.do(ctx, "profile", http.MethodGet, "/being", nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Ping checks that the backend answers on its root route and returns
// the welcome message it reports.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var resp welcomeResponse
	if err := c.do(ctx, "ping", http.MethodGet, "/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// do executes one request and decodes a 2xx JSON body into out
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "light-chat/1.0")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("backend unreachable",
			zap.String("op", op),
			zap.String("url", url),
			zap.Error(err))
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("backend responded",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Op:         op,
			Kind:       KindRequestFailed,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(data),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Error{Op: op, Kind: KindInvalidResponse, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Kind: KindInvalidResponse, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// errorDetail pulls "detail" out of an error body, falling back to raw text
func errorDetail(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Detail != "" {
		return er.Detail
	}
	if data[0] == '{' || data[0] == '[' {
		return ""
	}
	const maxDetail = 200
	if len(data) > maxDetail {
		return string(data[:maxDetail]) + "..."
	}
	return string(data)
}
