package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcher_SendsSessionCookie(t *testing.T) {
	var gotCookie, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("identity"); err == nil {
			gotCookie = cookie.Value
		}
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "7%09secret", "test-agent", time.Second)

	data, err := fetcher.Run(context.Background(), server.URL+"/listener/feed")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<html><body>ok</body></html>" {
		t.Errorf("Unexpected body: %s", data)
	}
	if gotCookie != "7%09secret" {
		t.Errorf("Expected identity cookie, got '%s'", gotCookie)
	}
	if gotAgent != "test-agent" {
		t.Errorf("Expected user agent 'test-agent', got '%s'", gotAgent)
	}
}

func TestFetcher_DecodesLegacyCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p>Bj\xf6rk</p>"))
	}))
	defer server.Close()

	data, err := NewFetcher(server.Client(), "x", "test-agent", time.Second).Run(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<p>Björk</p>" {
		t.Errorf("Expected UTF-8 output, got %q", data)
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewFetcher(server.Client(), "x", "test-agent", time.Second).Run(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", fetchErr.StatusCode)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := NewFetcher(server.Client(), "x", "test-agent", 50*time.Millisecond).Run(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected fetch to give up after the timeout, took %s", elapsed)
	}
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewFetcher(nil, "x", "test-agent", time.Second).Run(context.Background(), url)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("Expected no status code, got %d", fetchErr.StatusCode)
	}
}
