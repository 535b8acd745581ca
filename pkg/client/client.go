// Package client is a Go client for the hmoment HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
)

const Version = "0.1.0"

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to an hmoment API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	moments     *MomentsClient
	momentsOnce sync.Once
	reports     *ReportsClient
	reportsOnce sync.Once
	runs        *RunsClient
	runsOnce    sync.Once
}

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hmoment: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.InvalidParam("invalid baseURL").WithDetail(err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.InvalidParam("baseURL scheme must be http or https").WithDetail(baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		userAgent:    "hmoment-go-client/" + Version,
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Moments returns the moment, job, classification and scale sub-client.
func (c *Client) Moments() *MomentsClient {
	c.momentsOnce.Do(func() {
		c.moments = &MomentsClient{client: c}
	})
	return c.moments
}

// Reports returns the archived report sub-client.
func (c *Client) Reports() *ReportsClient {
	c.reportsOnce.Do(func() {
		c.reports = &ReportsClient{client: c}
	})
	return c.reports
}

// Runs returns the run history sub-client.
func (c *Client) Runs() *RunsClient {
	c.runsOnce.Do(func() {
		c.runs = &RunsClient{client: c}
	})
	return c.runs
}

// do sends one request, retrying network errors, 5xx responses and 429s,
// and decodes the data field of the response envelope into result.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
		}

		requestID := uuid.New().String()
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-Id", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to read response body")
		}

		if resp.StatusCode >= 400 {
			apiErr := parseAPIError(resp, respBody, requestID)
			lastErr = apiErr
			if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
				if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
					c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
					select {
					case <-time.After(time.Duration(seconds) * time.Second):
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				continue
			}
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			env := common.APIResponse[json.RawMessage]{}
			if err := json.Unmarshal(respBody, &env); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response")
			}
			if err := json.Unmarshal(env.Data, result); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response data")
			}
		}
		return nil
	}
	return lastErr
}

func parseAPIError(resp *http.Response, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
	var env common.APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		if env.RequestID != "" {
			apiErr.RequestID = env.RequestID
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	// 0-25% jitter
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

//Personal.AI order the ending
