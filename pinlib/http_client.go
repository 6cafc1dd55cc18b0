package pinlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent   string
	client      *http.Client
	rateLimiter *rate.Limiter
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	if h.client.Timeout <= 0 {
		return h.do(req)
	}

	ctx, cancel := context.WithTimeout(req.Context(), h.client.Timeout)

	resp, err := h.do(req.WithContext(ctx))
	if err != nil {
		cancel()

		return nil, err
	}

	// body is read after Do has returned
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

func (h httpClient) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if err := h.rateLimiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		if resp != nil {
			flushResponse(resp.Body)
		}

		return nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		flushResponse(resp.Body)

		return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
	}

	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser

	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()

	return c.ReadCloser.Close()
}

func classifyTransportError(ctx context.Context, err error) error {
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}

	return err
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a new HTTP client, wraps it with rate limiter,
// sets a user agent etc. Timeout of the given client is used as a
// budget for the whole request, including waiting for the rate
// limiter.
//
// Please see https://pkg.go.dev/golang.org/x/time/rate to get a meaning
// of rate limiter parameters. For example, interval of 1 second and
// burst of 1 means that the first request goes immediately and each
// consecutive one waits until at least a second has passed since the
// previous one.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int) HTTPClient {
	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimiterInterval), rateLimitBurst),
	}
}
