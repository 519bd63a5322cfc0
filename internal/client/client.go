// Package client talks to a running murmure server over its HTTP API.
package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgnsrekt/murmure-go/internal/api"
	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
)

// DefaultTimeout bounds one request. Synchronous analysis may wait on a
// remote model, so it is generous.
const DefaultTimeout = 2 * time.Minute

// ErrJobFailed is returned by Wait when a job ends in any status but done.
var ErrJobFailed = errors.New("narration job did not complete")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client is a murmure API client.
type Client struct {
	baseURL    string
	token      string
	logger     *slog.Logger
	httpClient *http.Client
}

// New creates a client for the server at baseURL. An empty token sends no
// Authorization header.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// DedupeKey derives a stable dedupe key from the text.
func DedupeKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:8])
}

// Analyze runs the text through the server pipeline without synthesis.
func (c *Client) Analyze(ctx context.Context, text string) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := c.do(ctx, http.MethodPost, "/v1/analyze", api.AnalyzeRequest{Text: text}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Narrate submits a narration job.
func (c *Client) Narrate(ctx context.Context, req api.NarrateRequest) (*api.NarrateResponse, error) {
	var res api.NarrateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/narrate", req, &res); err != nil {
		return nil, err
	}
	c.logger.Debug("narration submitted", "job_id", res.JobID)
	return &res, nil
}

// Status fetches the state of a narration job.
func (c *Client) Status(ctx context.Context, id string) (*api.NarrationResponse, error) {
	var res api.NarrationResponse
	if err := c.do(ctx, http.MethodGet, "/v1/narrations/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Wait polls a job until it finishes. A job that ends in any status other
// than done returns its last state and ErrJobFailed.
func (c *Client) Wait(ctx context.Context, id string, interval time.Duration) (*api.NarrationResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := c.Status(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.Status.Finished() {
			if res.Status != queue.StatusDone {
				return res, fmt.Errorf("%w: %s %s", ErrJobFailed, res.Status, res.Error)
			}
			return res, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Clip downloads the WAV clip at index for a finished job.
func (c *Client) Clip(ctx context.Context, id string, index int) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/narrations/%s/clips/%d", id, index), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(respBody))
	var e api.ErrorResponse
	if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
