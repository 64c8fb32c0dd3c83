// Package client provides an HTTP client for the scriptroom server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotFound is returned when a request id is unknown to the server.
var ErrNotFound = errors.New("request not found")

// Client talks to the scriptroom HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL.
// If baseURL is empty, uses SCRIPTROOM_SERVER_URL env var or defaults to localhost:5001.
// Timeout can be configured via SCRIPTROOM_CLIENT_TIMEOUT env var.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("SCRIPTROOM_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:5001"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("SCRIPTROOM_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SubmitInput is the payload for a script request.
type SubmitInput struct {
	Topic  string `json:"topic"`
	Style  string `json:"style"`
	APIKey string `json:"api_key"`
}

// Result is the state of a script request as reported by the server.
type Result struct {
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Terminal reports whether the request has reached a final state.
func (r Result) Terminal() bool {
	return r.Status == "completed" || r.Status == "failed"
}

type errorBody struct {
	Error string `json:"error"`
}

// Submit submits a new script request and returns the request id.
func (c *Client) Submit(ctx context.Context, input SubmitInput) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/submit_script_request", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var submitted struct {
		RequestID string `json:"request_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return submitted.RequestID, nil
}

// GetResult fetches the current state of a script request.
func (c *Client) GetResult(ctx context.Context, requestID string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/get_script_result/"+requestID, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, apiError(resp)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

// Poll fetches the request state at the given interval until it reaches a
// terminal state or the context is cancelled.
func (c *Client) Poll(ctx context.Context, requestID string, interval time.Duration) (Result, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := c.GetResult(ctx, requestID)
		if err != nil {
			return Result{}, err
		}
		if result.Terminal() {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

// JobEvent is a job status change pushed by the server.
type JobEvent struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// WatchEvents subscribes to the server's job event stream. The onEvent
// callback is invoked for each event. Return an error from onEvent to stop.
func (c *Client) WatchEvents(ctx context.Context, onEvent func(JobEvent) error) error {
	wsURL := c.baseURL + "/ws"
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event JobEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}
		if err := onEvent(event); err != nil {
			return err
		}
	}
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return fmt.Errorf("server error: %s - %s", resp.Status, eb.Error)
	}
	return fmt.Errorf("server error: %s", resp.Status)
}
