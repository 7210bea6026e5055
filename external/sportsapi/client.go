package sportsapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
	"github.com/riskibarqy/day-planner/internal/platform/resilience"
)

var errProviderTransient = crerr.New("sports provider transient failure")

type ClientConfig struct {
	Name           string
	Fetcher        Fetcher
	Headers        map[string]string
	Secrets        []string
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is the shared provider transport: header injection, retries with
// linear backoff for transient failures, a circuit breaker and JSON decoding.
type Client struct {
	name           string
	fetcher        Fetcher
	headers        map[string]string
	secrets        []string
	maxRetries     int
	backoff        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil, 0)
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "sportsapi"
	}

	headers := make(map[string]string, len(cfg.Headers))
	secrets := make([]string, 0, len(cfg.Secrets)+len(cfg.Headers))
	for key, value := range cfg.Headers {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		headers[key] = value
		secrets = append(secrets, value)
	}
	for _, secret := range cfg.Secrets {
		if strings.TrimSpace(secret) != "" {
			secrets = append(secrets, secret)
		}
	}

	breakerCfg := cfg.CircuitBreaker.Normalized()
	breaker := resilience.NewCircuitBreaker(name, breakerCfg)
	breaker.OnStateChange(func(breakerName string, _, to resilience.CircuitState) {
		metrics.SetCircuitState(breakerName, to.Level())
	})

	return &Client{
		name:           name,
		fetcher:        fetcher,
		headers:        headers,
		secrets:        secrets,
		maxRetries:     max(cfg.MaxRetries, 0),
		backoff:        backoff,
		logger:         logger.With("provider", name),
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches fullURL and decodes the body into target. Transport
// failures wrap fixture.ErrNetwork; undecodable bodies wrap fixture.ErrParse.
func (c *Client) GetJSON(ctx context.Context, fullURL string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: %w", fixture.ErrNetwork, err)
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		c.breaker.Record(err, isTransientFailure)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", fixture.ErrNetwork, err)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", fixture.ErrParse, c.name, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.fetcher.Fetch(ctx, fullURL, c.headers)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = fmt.Errorf("%w: %s", errProviderTransient, c.sanitize(err.Error()))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, status, abbreviateBody(raw))
		default:
			lastErr = fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
			c.logger.WarnContext(ctx, "provider request rejected", "url", c.redactURL(fullURL), "status", status)
			return nil, lastErr
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", c.redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	parsed.User = nil
	return c.sanitize(parsed.String())
}

func isTransientFailure(err error) bool {
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
