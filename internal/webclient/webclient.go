package webclient

import (
	"context"
	"net/http"
	"time"
)

// WebClient fetches pages for the audit pipeline. Implementations are
// responsible for their own transport (plain HTTP or a rendering browser);
// the pipeline only sees the Response snapshot.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests.
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}

// Backend names accepted by the factory.
const (
	BackendNetHTTP  = "nethttp"
	BackendChromeDP = "chromedp"
)

// Config selects and tunes the fetch backend.
type Config struct {
	// Backend is one of the registered backend names; empty means nethttp.
	Backend string

	// Timeout bounds a single fetch (nethttp) . Zero means 30s.
	Timeout time.Duration

	// IdleAfter is how long the chromedp backend waits for the network to
	// go quiet before snapshotting the rendered DOM. Zero means 2s.
	IdleAfter time.Duration

	// Headless controls the chromedp browser window. Defaults to true.
	Headless *bool
}

// DefaultConfig selects the plain HTTP backend.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
	}
}
