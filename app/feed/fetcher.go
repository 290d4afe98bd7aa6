package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const identityCookie = "identity"

type Fetcher struct {
	httpClient *http.Client
	identity   string
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, identity, userAgent string, timeout time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Fetcher{
		httpClient: httpClient,
		identity:   identity,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run downloads url with the session cookie and returns the body as UTF-8.
// Every failure is a *FetchError.
func (f *Fetcher) Run(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.AddCookie(&http.Cookie{Name: identityCookie, Value: f.identity})

	slog.Info("Requesting Bandcamp feed", "url", url)
	start := time.Now()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP error: %s", resp.Status)}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	slog.Info("Received response from Bandcamp", "bytes", len(data), "duration", time.Since(start))

	return data, nil
}
