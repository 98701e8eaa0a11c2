// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// ClientAPI defines the Zoom REST operations used by the live class service.
type ClientAPI interface {
	GetMeetingRecordings(ctx context.Context, meetingIDOrUUID string) (*MeetingRecordings, error)
	ListPastMeetingParticipants(ctx context.Context, meetingUUID string) ([]PastMeetingParticipant, error)
}

// Zoom endpoints and client defaults.
const (
	BaseURL              = "https://api.zoom.us/v2"
	AuthURL              = "https://zoom.us/oauth/token"
	DefaultClientTimeout = 30 * time.Second

	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Client calls the Zoom REST API with Server-to-Server OAuth credentials of
// one account.
type Client struct {
	httpClient  *http.Client
	config      Config
	oauthConfig *clientcredentials.Config

	// tokenSource is built lazily and shared by every request so the access
	// token is only fetched again once it expires.
	tokenOnce   sync.Once
	tokenSource oauth2.TokenSource
}

// Config holds the account credentials and transport settings of a Client.
// Zero values fall back to the package defaults.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret models.Secret

	BaseURL string
	AuthURL string
	Timeout time.Duration

	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a Zoom API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	// Server-to-Server OAuth uses the account_credentials grant.
	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret.Reveal(),
		TokenURL:     config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		oauthConfig: oauthConfig,
	}
}

// getAuthenticatedClient returns an HTTP client that adds the bearer token,
// fetching a new one once the cached token expires.
func (c *Client) getAuthenticatedClient() *http.Client {
	c.tokenOnce.Do(func() {
		// The token source outlives any single request, so it must not be
		// bound to a request context. The token endpoint shares the timeout.
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.tokenSource = c.oauthConfig.TokenSource(tokenCtx)
	})
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: c.tokenSource,
		},
	}
}

// errRetryableStatus marks a response that should be attempted again.
var errRetryableStatus = errors.New("retryable status")

// shouldRetry reports whether a failed attempt may succeed when repeated:
// transport errors, 5xx and 429 are retried, a cancelled context is not.
func shouldRetry(statusCode int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if err != nil {
		return true
	}
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}

// newBackOff returns the wait policy for one request. It is not shared
// between requests since an ExponentialBackOff is stateful.
func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.InitialBackoff
	b.MaxInterval = c.config.MaxBackoff
	b.Multiplier = c.config.BackoffMultiplier
	b.RandomizationFactor = 0.25
	return b
}

// retryAfter honours the Retry-After header Zoom sends with 429 answers.
func retryAfter(resp *http.Response) error {
	if resp.StatusCode != http.StatusTooManyRequests {
		return errRetryableStatus
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return errRetryableStatus
	}
	return backoff.RetryAfter(seconds)
}

// doRequest performs an authenticated request against the Zoom API. 5xx and
// 429 answers are retried up to MaxRetries times; when retries run out the
// last response is returned for the caller to inspect.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	logger := slog.With("method", method, "path", path)
	httpClient := c.getAuthenticatedClient()
	attempt := 0
	var last *http.Response

	operation := func() (*http.Response, error) {
		attempt++
		if last != nil {
			_ = last.Body.Close()
			last = nil
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := httpClient.Do(req)
		if err != nil {
			if !shouldRetry(0, err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		logger.DebugContext(ctx, "Zoom API request completed",
			"status", resp.StatusCode,
			"duration", time.Since(start).String(),
			"attempt", attempt,
		)
		if shouldRetry(resp.StatusCode, nil) {
			last = resp
			return resp, retryAfter(resp)
		}
		return resp, nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.config.MaxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.WarnContext(ctx, "Zoom API request failed, retrying",
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", wait.String(),
				logging.ErrKey, err)
		}),
	)

	switch {
	case err == nil:
		return resp, nil
	case resp != nil && ctx.Err() == nil:
		// Retries exhausted on a retryable status.
		logger.ErrorContext(ctx, "Zoom API request failed after all retries",
			"status", resp.StatusCode,
			"attempts", attempt,
			logging.PriorityCritical())
		return resp, nil
	default:
		if resp != nil {
			_ = resp.Body.Close()
		}
		logger.ErrorContext(ctx, "Zoom API request failed",
			"attempts", attempt,
			logging.ErrKey, err)
		if attempt > 1 {
			return nil, fmt.Errorf("request failed after %d attempts: %w", attempt, err)
		}
		return nil, err
	}
}

// APIError is a non-2xx response of the Zoom REST API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("zoom API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("zoom API error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the provider answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// parseErrorResponse builds an APIError from a failed response. The body
// is consumed.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
	}
	return apiErr
}

// getJSON performs a GET request and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// encodeMeetingUUID escapes a meeting UUID for use as a path segment. UUIDs
// starting with '/' or containing "//" must be encoded twice.
func encodeMeetingUUID(uuid string) string {
	encoded := url.PathEscape(uuid)
	if strings.HasPrefix(uuid, "/") || strings.Contains(uuid, "//") {
		encoded = url.PathEscape(encoded)
	}
	return encoded
}
