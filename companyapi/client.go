// Copyright 2025 Sirenic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package companyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 60 * time.Second
	countEndpoint  = "/count_bot_v1"
)

// CountResult is a successful count response. Count is the number of
// distinct legal entities matching the criteria.
type CountResult struct {
	Count int
	Raw   map[string]any
}

// Client calls the company database count API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each API call.
// Default is 60 seconds.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithClientLogger sets a custom logger.
// Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a count API client. An empty API key is allowed but
// logged; the API will reject requests without one.
func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "companyapi"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.logger.Warn("no API key configured, count requests will be rejected")
	}

	return c, nil
}

// countResponse is the API's success payload. count_legal is the
// authoritative figure; count is an older field kept as fallback.
type countResponse struct {
	CountLegal *int `json:"count_legal"`
	Count      int  `json:"count"`
}

// CountCompanies queries the API for the number of companies matching the
// criteria. HTTP failures come back as *APIError with a classified kind.
func (c *Client) CountCompanies(ctx context.Context, req *CountRequest) (*CountResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding count request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+countEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building count request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("count request failed", "err", err)
		return nil, &APIError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("unable to reach %s", c.baseURL),
			cause:   err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: "reading response body", cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	var parsed countResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &APIError{
			Kind:       KindUnexpected,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			cause:      err,
		}
	}

	count := parsed.Count
	if parsed.CountLegal != nil {
		count = *parsed.CountLegal
	}

	var raw map[string]any
	_ = json.Unmarshal(respBody, &raw)

	c.logger.Debug("count request completed", "count", count, "duration", time.Since(start))
	return &CountResult{Count: count, Raw: raw}, nil
}

// classifyStatus maps a non-200 response to a typed error.
func classifyStatus(statusCode int, body []byte) *APIError {
	switch statusCode {
	case http.StatusUnauthorized:
		return &APIError{
			Kind:       KindUnauthorized,
			StatusCode: statusCode,
			Message:    "invalid or missing API key",
		}
	case http.StatusBadRequest:
		message := "invalid request"
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return &APIError{
			Kind:       KindBadRequest,
			StatusCode: statusCode,
			Message:    message,
		}
	case 456:
		return &APIError{
			Kind:       KindCriteriaConflict,
			StatusCode: statusCode,
			Message:    "the provided criteria are incompatible",
		}
	default:
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &APIError{
			Kind:       KindUnexpected,
			StatusCode: statusCode,
			Message:    snippet,
		}
	}
}

// HealthCheck reports whether the API endpoint is responding.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
