package webclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/webclient"
)

func TestNetHTTPClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.NewNopLogger(), nil)
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "ok") {
		t.Errorf("Body = %q, want it to contain 'ok'", resp.Body)
	}
	if resp.Headers.Get("Content-Type") != "text/html" {
		t.Errorf("Content-Type = %q", resp.Headers.Get("Content-Type"))
	}
	if resp.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestNetHTTPClient_ForwardsHeaders(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.NewNopLogger(), nil)
	defer c.Close()

	headers := http.Header{}
	headers.Set("User-Agent", "pagelens-test")
	_, err := c.Do(context.Background(), &webclient.Request{URL: srv.URL, Headers: headers})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotUA != "pagelens-test" {
		t.Errorf("User-Agent = %q, want pagelens-test", gotUA)
	}
}

func TestNetHTTPClient_NilRequest(t *testing.T) {
	t.Parallel()

	c := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.NewNopLogger(), nil)
	defer c.Close()

	if _, err := c.Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestFactory_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := webclient.DefaultConfig()
	cfg.Backend = "carrier-pigeon"
	if _, err := webclient.New(cfg, logging.NewNopLogger()); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}

func TestFactory_DefaultBackends(t *testing.T) {
	webclient.RegisterDefaultBackends()

	c, err := webclient.New(webclient.DefaultConfig(), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*webclient.NetHTTPClient); !ok {
		t.Errorf("default backend is %T, want *NetHTTPClient", c)
	}
}
