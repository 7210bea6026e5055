package sportsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 6 << 20

// Fetcher performs a GET and returns the raw body with its status code.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error)
}

type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher wraps client (or a new one with timeout) and instruments its
// transport with otelhttp.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout <= 0 {
		client.Timeout = timeout
	}
	if client.Timeout <= 0 {
		client.Timeout = 20 * time.Second
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = otelhttp.NewTransport(base)
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

type FastHTTPFetcher struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewFastHTTPFetcher(timeout time.Duration) *FastHTTPFetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &FastHTTPFetcher{
		client: &fasthttp.Client{
			Name:                "day-planner",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
		timeout: timeout,
	}
}

type fastResult struct {
	body   []byte
	status int
	err    error
}

// Fetch honours ctx cancellation by abandoning the in-flight request; the
// request itself is bounded by the client timeout.
func (f *FastHTTPFetcher) Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	done := make(chan fastResult, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(rawURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("accept", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		if err := f.client.DoTimeout(req, resp, timeout); err != nil {
			done <- fastResult{err: fmt.Errorf("send request: %w", err)}
			return
		}
		done <- fastResult{
			body:   append([]byte(nil), resp.Body()...),
			status: resp.StatusCode(),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case res := <-done:
		return res.body, res.status, res.err
	}
}
