package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFetchTimeout is the default HTTP request timeout.
const DefaultFetchTimeout = 30 * time.Second

// maxFetchBody caps how much of a remote response is read.
const maxFetchBody = 64 * 1024 * 1024 // 64MB

// Fetcher retrieves raw log text from remote HTTP endpoints.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new fetch client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{},
	}
}

// FetchOptions configures a remote retrieval.
type FetchOptions struct {
	URL      string
	Username string        // Basic auth user (optional)
	Password string        // Basic auth password
	Timeout  time.Duration // Request timeout (uses DefaultFetchTimeout if zero)
}

// Fetch performs an HTTP GET and returns the response body as raw ingestion
// text. Any non-2xx status or transport failure is surfaced verbatim to the
// caller; the core never sees a partial fetch.
func (f *Fetcher) Fetch(ctx context.Context, opts FetchOptions) (string, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", "loglens-fetch")
	if opts.Username != "" {
		req.SetBasicAuth(opts.Username, opts.Password)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", opts.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: unexpected status %d", opts.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", opts.URL, err)
	}

	return string(body), nil
}
