package document_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/pagelens/pagelens/internal/document"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head>
  <title>  Fixture Page  </title>
  <meta name="description" content=" A small fixture. ">
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Hello</h1>
  <p>First paragraph with    spaced   words.</p>
  <script>var hidden = "should not appear";</script>
</body>
</html>`

func mustDoc(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.FromHTML(fixtureHTML)
	if err != nil {
		t.Fatalf("FromHTML returned error: %v", err)
	}
	return d
}

func TestNew_RejectsEmptyHTML(t *testing.T) {
	t.Parallel()
	if _, err := document.New("https://example.com", 200, nil, nil, time.Time{}); err == nil {
		t.Fatal("expected error for empty HTML")
	}
}

func TestDocument_TitleAndMeta(t *testing.T) {
	t.Parallel()
	d := mustDoc(t)

	if got := d.Title(); got != "Fixture Page" {
		t.Errorf("Title() = %q, want %q", got, "Fixture Page")
	}
	if got := d.MetaContent("description"); got != "A small fixture." {
		t.Errorf("MetaContent(description) = %q, want %q", got, "A small fixture.")
	}
	if got := d.MetaContent("missing"); got != "" {
		t.Errorf("MetaContent(missing) = %q, want empty", got)
	}
}

func TestDocument_BodyTextExcludesScriptsAndCollapsesWhitespace(t *testing.T) {
	t.Parallel()
	d := mustDoc(t)

	text := d.BodyText()
	if text != "Hello First paragraph with spaced words." {
		t.Errorf("BodyText() = %q", text)
	}
}

func TestDocument_CountAndFind(t *testing.T) {
	t.Parallel()
	d := mustDoc(t)

	if got := d.Count("p"); got != 1 {
		t.Errorf("Count(p) = %d, want 1", got)
	}
	if got := d.Count("h1"); got != 1 {
		t.Errorf("Count(h1) = %d, want 1", got)
	}
	if got := d.Find("h1").Text(); got != "Hello" {
		t.Errorf("Find(h1).Text() = %q, want %q", got, "Hello")
	}
}

func TestDocument_SnapshotMetadata(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Content-Type", "text/html; charset=utf-8")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	d, err := document.New("https://example.com/a", 200, headers, []byte(fixtureHTML), at)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if d.URL() != "https://example.com/a" {
		t.Errorf("URL() = %q", d.URL())
	}
	if d.StatusCode() != 200 {
		t.Errorf("StatusCode() = %d", d.StatusCode())
	}
	if d.Header("content-type") != "text/html; charset=utf-8" {
		t.Errorf("Header(content-type) = %q", d.Header("content-type"))
	}
	if !d.FetchedAt().Equal(at) {
		t.Errorf("FetchedAt() = %v", d.FetchedAt())
	}
	if d.RawSize() != len(fixtureHTML) {
		t.Errorf("RawSize() = %d", d.RawSize())
	}
}
