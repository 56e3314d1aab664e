package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen is returned without contacting the upstream while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// ClientConfig holds configuration for the client.
type ClientConfig struct {
	Name string

	// Timeout bounds each request. Default: 10 seconds.
	Timeout time.Duration

	// MaxBodyBytes caps the response size. Default: 4 MiB.
	MaxBodyBytes int64

	CircuitBreaker *CircuitBreakerConfig

	// UserAgent is sent with every request when set.
	UserAgent string

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// DefaultClientConfig returns defaults for a named upstream.
func DefaultClientConfig(name string) ClientConfig {
	cb := DefaultCircuitBreakerConfig(name)
	return ClientConfig{Name: name, Timeout: 10 * time.Second, MaxBodyBytes: 4 << 20, CircuitBreaker: &cb}
}

// Client performs GET requests through a circuit breaker. Failed requests are
// not retried; the next refresh cycle is the retry.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker[[]byte]
	config         ClientConfig
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	cbCfg := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbCfg = *cfg.CircuitBreaker
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient:     httpClient,
		circuitBreaker: NewCircuitBreaker[[]byte](cbCfg),
		config:         cfg,
	}
}

// GetBody fetches url and returns the body of a 2xx response. 4xx responses
// do not count against the breaker.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var clientErr error
	body, err := c.circuitBreaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.config.UserAgent != "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		if resp.StatusCode >= 300 {
			clientErr = &StatusError{StatusCode: resp.StatusCode}
			return nil, nil
		}
		return io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", c.config.Name, ErrCircuitOpen)
		}
		return nil, fmt.Errorf("%s: %w", c.config.Name, err)
	}
	if clientErr != nil {
		return nil, fmt.Errorf("%s: %w", c.config.Name, clientErr)
	}
	return body, nil
}

// State reports the breaker state, e.g. for the status API.
func (c *Client) State() string {
	return c.circuitBreaker.State().String()
}
