package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ClientConfig configures provider HTTP calls.
type ClientConfig struct {
	// Timeout bounds a single provider call.
	Timeout time.Duration
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
	// Interval is the closed-state window after which failure counts reset.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultClientConfig returns a 30s timeout and a breaker that opens after five consecutive failures.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		MaxRequests:         1,
		Interval:            60 * time.Second,
		OpenTimeout:         30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Client performs provider HTTP calls behind a per-provider circuit breaker.
type Client struct {
	http    *http.Client
	config  ClientConfig
	metrics *metrics.Metrics
	logger  *logging.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewClient creates a Client. m may be nil.
func NewClient(config ClientConfig, m *metrics.Metrics, logger *logging.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: config.Timeout},
		config:   config,
		metrics:  m,
		logger:   logging.OrGlobal(logger).Named("gateway.client"),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

type httpResult struct {
	body   []byte
	status int
}

func (c *Client) breaker(provider string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[provider]; ok {
		return cb
	}

	threshold := c.config.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: c.config.MaxRequests,
		Interval:    c.config.Interval,
		Timeout:     c.config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			switch to {
			case gobreaker.StateClosed:
				c.metrics.RecordCircuitState(name, metrics.CircuitClosed)
			case gobreaker.StateHalfOpen:
				c.metrics.RecordCircuitState(name, metrics.CircuitHalfOpen)
			case gobreaker.StateOpen:
				c.metrics.RecordCircuitState(name, metrics.CircuitOpen)
			}
		},
	})
	c.breakers[provider] = cb
	return cb
}

// Do sends req on behalf of provider. Transport failures and 5xx answers count
// against the breaker and come back as *Error; any other answer is returned
// with its status code for the adapter to interpret.
func (c *Client) Do(ctx context.Context, provider, operation string, req *http.Request) ([]byte, int, error) {
	start := time.Now()
	req = req.WithContext(ctx)

	result, err := c.breaker(provider).Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
		}
		return httpResult{body: body, status: resp.StatusCode}, nil
	})

	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordGatewayRequest(provider, operation, "error", elapsed)
		c.logger.Error("provider call failed",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, 0, c.classify(ctx, provider, err)
	}

	res := result.(httpResult)
	outcome := "success"
	if res.status >= http.StatusBadRequest {
		outcome = "client_error"
	}
	c.metrics.RecordGatewayRequest(provider, operation, outcome, elapsed)
	return res.body, res.status, nil
}

func (c *Client) classify(ctx context.Context, provider string, err error) *Error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &Error{Provider: provider, Kind: KindNetwork, Message: "provider temporarily unavailable", Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &Error{Provider: provider, Kind: KindNetwork, Message: "provider request timed out", Err: err}
	default:
		return &Error{Provider: provider, Kind: KindNetwork, Message: "provider request failed", Err: err}
	}
}

// PostJSON sends payload as a JSON body.
func (c *Client) PostJSON(ctx context.Context, provider, operation, endpoint string, headers map[string]string, payload interface{}) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, provider, operation, req)
}

// PostForm sends form as an urlencoded body.
func (c *Client) PostForm(ctx context.Context, provider, operation, endpoint string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, provider, operation, req)
}

// Get issues a GET with the given query and headers.
func (c *Client) Get(ctx context.Context, provider, operation, endpoint string, query url.Values, headers map[string]string) ([]byte, int, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, provider, operation, req)
}

// JoinURL appends path to base, tolerating slashes on either side.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
