// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/metrics"
)

// maxResponseSize caps how much of an upstream response body is read.
// A boundary against a misbehaving upstream streaming unbounded data.
const maxResponseSize = 32 * 1024 * 1024 // 32MB

// Client fetches raw project payloads from the upstream project-management
// API. It adds bearer authentication, a bounded per-request timeout, and an
// outbound rate limit.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an upstream API client from configuration. A client with
// an empty URL is valid but every fetch returns ErrUpstreamDisabled.
func NewClient(cfg *config.UpstreamConfig) *Client {
	return &Client{
		url:   cfg.URL,
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// Enabled reports whether a live upstream is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// FetchProjects performs one GET against the upstream projects endpoint and
// returns the raw body. Format detection happens later in Normalize; the
// client never inspects payload shape.
func (c *Client) FetchProjects(ctx context.Context) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrUpstreamDisabled
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("upstream rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	metrics.UpstreamRequests.WithLabelValues("success").Inc()
	return body, nil
}
