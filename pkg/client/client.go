// Package client is a Go client for the pinpoint placement service.
//
// It mirrors the service's HTTP API: overlay registration and retrieval
// under /v1/overlays and placement computation under /v1/placements.
// Transient failures (network errors, 5xx responses) are retried with
// exponential backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/httputil"
	"github.com/bailus/pinpoint/pkg/overlay"
	"github.com/bailus/pinpoint/pkg/store"
)

// Camera is the camera state sent with a placement request.
type Camera struct {
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	Zoom   float64 `json:"zoom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Globe  bool    `json:"globe,omitempty"`
}

// PlacementResult is one overlay's placement in a service response.
type PlacementResult struct {
	ID        string             `json:"id"`
	Placement *overlay.Placement `json:"placement,omitempty"`
	Skipped   bool               `json:"skipped,omitempty"`
}

// PlacementResponse is the full placement response.
type PlacementResponse struct {
	Placements []PlacementResult `json:"placements"`
	Cached     bool              `json:"cached"`
}

// Client talks to one placement service instance.
type Client struct {
	base     string
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets the retry policy for transient failures.
func WithRetries(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts = attempts; c.delay = delay }
}

// New creates a client for the service at base, e.g. "http://localhost:8080".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:     strings.TrimRight(base, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOverlay registers an overlay and returns the stored record, with the
// service-assigned id when none was supplied.
func (c *Client) CreateOverlay(ctx context.Context, o store.Overlay) (store.Overlay, error) {
	var created store.Overlay
	err := c.do(ctx, http.MethodPost, "/v1/overlays", o, &created)
	return created, err
}

// GetOverlay fetches one overlay by id.
func (c *Client) GetOverlay(ctx context.Context, id string) (store.Overlay, error) {
	var o store.Overlay
	err := c.do(ctx, http.MethodGet, "/v1/overlays/"+id, nil, &o)
	return o, err
}

// DeleteOverlay removes one overlay by id.
func (c *Client) DeleteOverlay(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/overlays/"+id, nil, nil)
}

// ListOverlays returns all registered overlays.
func (c *Client) ListOverlays(ctx context.Context) ([]store.Overlay, error) {
	var overlays []store.Overlay
	err := c.do(ctx, http.MethodGet, "/v1/overlays", nil, &overlays)
	return overlays, err
}

// Placements computes placements for the registered overlays under cam. A
// non-empty ids list restricts the set.
func (c *Client) Placements(ctx context.Context, cam Camera, ids ...string) (PlacementResponse, error) {
	req := struct {
		Camera Camera   `json:"camera"`
		IDs    []string `json:"ids,omitempty"`
	}{Camera: cam, IDs: ids}

	var resp PlacementResponse
	err := c.do(ctx, http.MethodPost, "/v1/placements", req, &resp)
	return resp, err
}

// Healthy reports whether the service answers its health check.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil) == nil
}

// do runs one request with retry, decoding a JSON response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encoding request")
		}
	}

	return httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "building request")
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return &httputil.RetryableError{Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
		}
		if resp.StatusCode >= 400 {
			return decodeError(resp)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "decoding response")
			}
		}
		return nil
	})
}

// decodeError converts the service's JSON error envelope into a structured
// error, preserving the code.
func decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Code == "" {
		return errors.New(errors.ErrCodeInternal, "status %d", resp.StatusCode)
	}
	return errors.New(errors.Code(body.Error.Code), "%s", body.Error.Message)
}
