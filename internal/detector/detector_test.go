package detector_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pagelens/pagelens/internal/detector"
	"github.com/pagelens/pagelens/internal/document"
)

var richPage = `<!DOCTYPE html>
<html>
<head>
  <title>A Perfectly Reasonable Page Title</title>
  <meta name="description" content="A demo page for the detector suite.">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta property="og:title" content="A Page">
  <link rel="canonical" href="https://example.com/demo">
  <link rel="stylesheet" href="/app.css">
</head>
<body>
  <h1>Welcome</h1>
  <h2>Section</h2>
  <p>` + loremWords(320) + `</p>
  <p>Second paragraph here.</p>
  <p>Third paragraph here.</p>
  <img src="/a.png" alt="a">
  <img src="/b.png" alt="b">
  <a href="/one">One</a>
  <a href="/two">Two</a>
  <a href="/three">Three</a>
  <a href="https://elsewhere.example">Elsewhere</a>
  <form action="/subscribe"><input type="email"></form>
</body>
</html>`

const barePage = `<html><head></head><body><div>hi</div></body></html>`

func loremWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "lorem"
	}
	return strings.Join(words, " ")
}

func mustDoc(t *testing.T, html string) *document.Document {
	t.Helper()
	d, err := document.FromHTML(html)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	return d
}

func TestContentDetector_RichPage(t *testing.T) {
	t.Parallel()

	d := &detector.ContentDetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, richPage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !res.Success {
		t.Fatal("expected Success=true")
	}
	if res.Metrics["word_count"] < 300 {
		t.Errorf("word_count = %v, want >= 300", res.Metrics["word_count"])
	}
	if res.Metrics["paragraph_count"] != 3 {
		t.Errorf("paragraph_count = %v, want 3", res.Metrics["paragraph_count"])
	}
	if res.SubScore < 80 {
		t.Errorf("SubScore = %v, want >= 80 for a rich page", res.SubScore)
	}
	for _, f := range res.Findings {
		if f.Key == "thin-content" {
			t.Error("rich page flagged as thin-content")
		}
	}
}

func TestContentDetector_BarePageIsThin(t *testing.T) {
	t.Parallel()

	d := &detector.ContentDetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, barePage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	var thin bool
	for _, f := range res.Findings {
		if f.Key == "thin-content" {
			thin = true
		}
	}
	if !thin {
		t.Error("bare page not flagged thin-content")
	}
	if res.SubScore >= 65 {
		t.Errorf("SubScore = %v, want < 65 for a bare page", res.SubScore)
	}
}

func TestSEODetector_Metrics(t *testing.T) {
	t.Parallel()

	d := &detector.SEODetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, richPage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Metrics["has_meta_description"] != 1 {
		t.Error("has_meta_description = 0, want 1")
	}
	if res.Metrics["has_canonical"] != 1 {
		t.Error("has_canonical = 0, want 1")
	}
	if res.Metrics["h1_count"] != 1 {
		t.Errorf("h1_count = %v, want 1", res.Metrics["h1_count"])
	}
	if res.Metrics["img_alt_ratio"] != 1 {
		t.Errorf("img_alt_ratio = %v, want 1", res.Metrics["img_alt_ratio"])
	}
	if res.Metrics["og_tag_count"] != 1 {
		t.Errorf("og_tag_count = %v, want 1", res.Metrics["og_tag_count"])
	}
}

func TestSEODetector_FlagsMissingBasics(t *testing.T) {
	t.Parallel()

	d := &detector.SEODetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, barePage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	keys := map[string]bool{}
	for _, f := range res.Findings {
		keys[f.Key] = true
	}
	if !keys["missing-title"] {
		t.Error("missing-title not flagged")
	}
	if !keys["missing-meta-description"] {
		t.Error("missing-meta-description not flagged")
	}
}

func TestResourcesDetector_CountsScripts(t *testing.T) {
	t.Parallel()

	html := `<html><head><script src="/a.js"></script><script>inline()</script></head>` +
		`<body><iframe src="x"></iframe></body></html>`
	d := &detector.ResourcesDetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, html), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Metrics["script_count"] != 2 {
		t.Errorf("script_count = %v, want 2", res.Metrics["script_count"])
	}
	if res.Metrics["external_script_count"] != 1 {
		t.Errorf("external_script_count = %v, want 1", res.Metrics["external_script_count"])
	}
	if res.Metrics["inline_script_count"] != 1 {
		t.Errorf("inline_script_count = %v, want 1", res.Metrics["inline_script_count"])
	}
	if res.Metrics["iframe_count"] != 1 {
		t.Errorf("iframe_count = %v, want 1", res.Metrics["iframe_count"])
	}
}

func TestMobileDetector_Viewport(t *testing.T) {
	t.Parallel()

	d := &detector.MobileDetector{}

	res, err := d.Detect(context.Background(), mustDoc(t, richPage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Metrics["has_viewport"] != 1 {
		t.Error("has_viewport = 0 for page with viewport meta")
	}

	res, err = d.Detect(context.Background(), mustDoc(t, barePage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Metrics["has_viewport"] != 0 {
		t.Error("has_viewport = 1 for page without viewport meta")
	}
	var flagged bool
	for _, f := range res.Findings {
		if f.Key == "no-viewport" {
			flagged = true
		}
	}
	if !flagged {
		t.Error("no-viewport not flagged")
	}
}

func TestEngagementDetector_LinkClassification(t *testing.T) {
	t.Parallel()

	d := &detector.EngagementDetector{}
	res, err := d.Detect(context.Background(), mustDoc(t, richPage), detector.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Metrics["internal_link_count"] != 3 {
		t.Errorf("internal_link_count = %v, want 3", res.Metrics["internal_link_count"])
	}
	if res.Metrics["external_link_count"] != 1 {
		t.Errorf("external_link_count = %v, want 1", res.Metrics["external_link_count"])
	}
	if res.Metrics["form_count"] != 1 {
		t.Errorf("form_count = %v, want 1", res.Metrics["form_count"])
	}
}

func TestAll_NamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, d := range detector.All() {
		if seen[d.Name()] {
			t.Errorf("duplicate detector name %q", d.Name())
		}
		seen[d.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 stock detectors, got %d", len(seen))
	}
}
