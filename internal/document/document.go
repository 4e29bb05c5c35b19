package document

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Document is a read-only, already-parsed DOM snapshot handed to detectors.
// Detectors share one Document concurrently and must never mutate it; the
// accessors below only read. The raw HTML is kept for size/ratio metrics.
type Document struct {
	url        string
	statusCode int
	headers    http.Header
	fetchedAt  time.Time
	rawHTML    []byte
	doc        *goquery.Document
}

// New parses raw HTML into a Document snapshot. url, statusCode and headers
// describe how the snapshot was obtained and may be zero values for
// fixture-based tests.
func New(url string, statusCode int, headers http.Header, html []byte, fetchedAt time.Time) (*Document, error) {
	if len(html) == 0 {
		return nil, fmt.Errorf("document: empty HTML for %q", url)
	}
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("document: parse %q: %w", url, err)
	}
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	return &Document{
		url:        url,
		statusCode: statusCode,
		headers:    headers,
		fetchedAt:  fetchedAt,
		rawHTML:    html,
		doc:        gq,
	}, nil
}

// FromHTML is a convenience constructor for tests and one-shot scoring of
// inline fixtures.
func FromHTML(html string) (*Document, error) {
	return New("", 0, nil, []byte(html), time.Time{})
}

func (d *Document) URL() string          { return d.url }
func (d *Document) StatusCode() int      { return d.statusCode }
func (d *Document) FetchedAt() time.Time { return d.fetchedAt }
func (d *Document) RawSize() int         { return len(d.rawHTML) }

// Header returns a response header value (canonical-cased lookup).
func (d *Document) Header(name string) string {
	if d.headers == nil {
		return ""
	}
	return d.headers.Get(name)
}

// Find runs a CSS selector query against the snapshot.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Count returns the number of elements matching the selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// Title returns the trimmed document title.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaContent returns the content attribute of <meta name=...>.
func (d *Document) MetaContent(name string) string {
	sel := d.doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// BodyText returns the visible text of <body> with whitespace collapsed.
// Script and style contents are excluded.
func (d *Document) BodyText() string {
	body := d.doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return collapseWhitespace(body.Text())
}

// collapseWhitespace folds runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
