// Package fashion is the client for the remote image-generation service
// behind avatar preparation and the dress-up pipeline.
package fashion

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/ratelimit"
)

const (
	// Rate limit: generation jobs are expensive upstream; 2 rps with a
	// small burst keeps us inside the service's published limits.
	defaultRPS   = 2.0
	defaultBurst = 4

	// HTTP client settings.
	defaultTimeout = 30 * time.Second

	// limiterKey: all requests share one bucket; the service limits per
	// API key, not per user.
	limiterKey = "fashion"
)

// Client is a rate-limited image-generation API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	baseURL string
	apiKey  string

	pollInterval    time.Duration
	pollMaxAttempts int
	pollDeadline    time.Duration
}

// New creates a new fashion client from configuration.
func New(cfg config.FashionConfig, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:         ratelimit.New(defaultRPS, defaultBurst),
		logger:          logger,
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		pollInterval:    cfg.PollInterval,
		pollMaxAttempts: cfg.PollMaxAttempts,
		pollDeadline:    cfg.PollDeadline,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Run queues a generation job and returns its job id.
func (c *Client) Run(ctx context.Context, model string, inputs map[string]string) (string, error) {
	payload, err := json.Marshal(runRequest{Model: model, Inputs: inputs})
	if err != nil {
		return "", wrapError("run", model, "", fmt.Errorf("marshal request: %w", err))
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/run", payload)
	if err != nil {
		return "", wrapError("run", model, "", err)
	}

	var resp runResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", wrapError("run", model, "", fmt.Errorf("parse response: %w", err))
	}
	if resp.JobID == "" {
		return "", wrapError("run", model, "", fmt.Errorf("missing job id in response"))
	}

	c.logger.Debug("fashion job queued", "model", model, "job_id", resp.JobID)
	return resp.JobID, nil
}

// PollStatus fetches the current status of a generation job.
func (c *Client) PollStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/status/"+jobID, nil)
	if err != nil {
		return nil, wrapError("pollStatus", "", jobID, err)
	}

	var status JobStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, wrapError("pollStatus", "", jobID, fmt.Errorf("parse response: %w", err))
	}
	return &status, nil
}

// WaitForOutput polls a job until it reaches a terminal state and returns
// the first output image URL. Polling is bounded by both an attempt cap
// and a wall-clock deadline; exhausting either yields ErrTimeout, which is
// distinct from the remote reporting failure (ErrJobFailed).
func (c *Client) WaitForOutput(ctx context.Context, jobID string) (string, error) {
	deadline := time.Now().Add(c.pollDeadline)

	for attempt := 1; attempt <= c.pollMaxAttempts; attempt++ {
		status, err := c.PollStatus(ctx, jobID)
		if err != nil {
			return "", err
		}

		if status.Terminal() {
			if status.Status == StatusFailed {
				return "", wrapError("pollStatus", "", jobID,
					fmt.Errorf("%w: %s", ErrJobFailed, status.Error))
			}
			if len(status.Output) == 0 {
				return "", wrapError("pollStatus", "", jobID, ErrNoOutput)
			}
			return status.Output[0], nil
		}

		if time.Now().After(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			return "", wrapError("pollStatus", "", jobID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}

	return "", wrapError("pollStatus", "", jobID, ErrTimeout)
}

// RunAndWait queues a job and blocks until its output is ready.
func (c *Client) RunAndWait(ctx context.Context, model string, inputs map[string]string) (string, error) {
	jobID, err := c.Run(ctx, model, inputs)
	if err != nil {
		return "", err
	}
	return c.WaitForOutput(ctx, jobID)
}

// doRequest executes an HTTP request with rate limiting.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Wardrobe/1.0")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrBadRequest
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
