// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genlang provides the client for the hosted generative-language
// API used by the intent parser.
//
// The client speaks the generateContent REST protocol: a single prompt in,
// a single completion out. Failures deliberately do not retry; the chat
// layer degrades every error to one generic fallback message, so a retry
// loop would only delay that.
package genlang

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the generative-language API.
const (
	// DefaultBaseURL is the base URL for the hosted API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when the config names none.
	DefaultModel = "gemini-1.5-flash"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps the response body read.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB

	// requestsPerSecond bounds outbound request bursts.
	requestsPerSecond = 2
)

// sharedHTTPClient pools connections across all requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("generative-language API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrBlocked indicates the prompt or completion was blocked by safety
	// filters.
	ErrBlocked = errors.New("content blocked")

	// ErrEmptyResponse indicates the API returned no usable text.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError represents an error envelope from the API.
type APIError struct {
	Status  int    // HTTP status
	Code    string // API status string, e.g. "INVALID_ARGUMENT"
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("genlang error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("genlang error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// CLIENT
// =============================================================================

// Config holds client configuration. Zero values are filled with defaults.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration

	// Temperature for completions. Intent parsing wants it low.
	Temperature float64

	// MaxOutputTokens caps the completion length (0 = API default).
	MaxOutputTokens int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		Timeout:         DefaultTimeout,
		Temperature:     0.2,
		MaxOutputTokens: 768,
	}
}

// Client calls the hosted generative-language API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = def.MaxOutputTokens
	}
	return &Client{
		cfg:        cfg,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate sends a single prompt and returns the completion text.
// One attempt only; every failure maps to a typed error the caller folds
// into the chat fallback message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := GenerateRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		GenerationConfig: &GenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(c.cfg.Model),
		url.QueryEscape(c.cfg.APIKey))

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.mapStatusError(resp.StatusCode, body)
	}

	var gen GenerateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if gen.PromptFeedback != nil && gen.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, gen.PromptFeedback.BlockReason)
	}
	if len(gen.Candidates) > 0 && gen.Candidates[0].FinishReason == "SAFETY" {
		return "", fmt.Errorf("%w: completion filtered", ErrBlocked)
	}

	text := strings.TrimSpace(gen.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// mapStatusError converts a non-2xx response into a typed error.
func (c *Client) mapStatusError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	default:
		return apiErr
	}
}
