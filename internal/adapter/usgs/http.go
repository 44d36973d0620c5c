// Package usgs fetches station listings and county codes from the USGS
// water data services.
package usgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/usgs-station-index/internal/observability"
)

// Service labels used in metrics and errors.
const (
	serviceSites    = "sites"
	serviceCounties = "counties"
)

// ErrUpstreamStatus wraps non-2xx responses.
var ErrUpstreamStatus = errors.New("usgs upstream status")

// errNotFound marks a 404, which the site service uses for "no sites match".
var errNotFound = errors.New("not found")

type fetcher struct {
	httpClient *http.Client
	userAgent  string
	metrics    *observability.Metrics
}

func newFetcher(timeout time.Duration, userAgent string, metrics *observability.Metrics) fetcher {
	return fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		metrics:    metrics,
	}
}

// get issues a GET for fullURL and returns the body of a 2xx response.
func (f fetcher) get(ctx context.Context, fullURL, service string) ([]byte, error) {
	start := time.Now()
	body, err := f.do(ctx, fullURL, service)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	f.metrics.Requests.WithLabelValues(service, outcome).Inc()
	f.metrics.RequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	return body, err
}

func (f fetcher) do(ctx context.Context, fullURL, service string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", service, errNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: status %d: %s", ErrUpstreamStatus, service, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", service, err)
	}
	return body, nil
}
