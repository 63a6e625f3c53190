// Package safetyclient is the HTTP client for the external route-scoring
// service. It knows the wire contract and nothing about trips; the service
// layer decides what to send and what to do with the report.
package safetyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/safesafar/backend/internal/domain"
)

// Client calls the route-scoring service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New constructs a Client for the scoring service at baseURL (no trailing
// slash). timeout bounds each CheckRoute call end to end.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
	}
}

// routeSafetyRequest is the POST body for /route_safety.
type routeSafetyRequest struct {
	Waypoints []domain.Waypoint `json:"waypoints"`
}

// CheckRoute submits the waypoints for scoring and decodes the report.
// Transport errors, timeouts, non-2xx statuses, and undecodable bodies are
// all surfaced as domain.ErrUpstreamUnavailable; the call is never retried
// here. The context deadline is the tighter of ctx and the client timeout.
func (c *Client) CheckRoute(ctx context.Context, waypoints []domain.Waypoint) (domain.SafetyReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(routeSafetyRequest{Waypoints: waypoints})
	if err != nil {
		return domain.SafetyReport{}, fmt.Errorf("safetyclient.CheckRoute: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/route_safety", bytes.NewReader(body))
	if err != nil {
		return domain.SafetyReport{}, fmt.Errorf("safetyclient.CheckRoute: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SafetyReport{}, fmt.Errorf("safetyclient.CheckRoute: %w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.SafetyReport{}, fmt.Errorf("safetyclient.CheckRoute: %w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var report domain.SafetyReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return domain.SafetyReport{}, fmt.Errorf("safetyclient.CheckRoute: %w: decode: %v", domain.ErrUpstreamUnavailable, err)
	}
	return report, nil
}
