package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// EngagementDetector measures the hooks that keep a visitor on the page:
// internal linking, media embeds, forms and the share of copy spent on link
// text.
type EngagementDetector struct{}

func (d *EngagementDetector) Name() string { return "engagement" }

func (d *EngagementDetector) Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error) {
	var internal, external int
	var linkTextLen int
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		linkTextLen += len(strings.TrimSpace(s.Text()))
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//") {
			external++
		} else if href != "" && !strings.HasPrefix(href, "#") {
			internal++
		}
	})

	bodyLen := len(doc.BodyText())
	linkDensity := 0.0
	if bodyLen > 0 {
		linkDensity = float64(linkTextLen) / float64(bodyLen)
	}

	media := doc.Count("img") + doc.Count("video") + doc.Count("audio") + doc.Count("picture")
	forms := doc.Count("form")

	res := &model.DetectorResult{
		Name: d.Name(),
		Metrics: map[string]float64{
			"internal_link_count": float64(internal),
			"external_link_count": float64(external),
			"link_density":        linkDensity,
			"media_count":         float64(media),
			"form_count":          float64(forms),
		},
		Success: true,
	}

	score := 60.0
	if internal >= 3 {
		score += 15
	} else {
		res.Findings = append(res.Findings, model.Finding{
			Key:         "few-internal-links",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("only %d internal links", internal),
			Value:       internal,
		})
	}
	if media > 0 {
		score += 10
	} else {
		res.Findings = append(res.Findings, model.Finding{
			Key:         "no-media",
			Impact:      model.ImpactLow,
			Description: "page embeds no images or media",
		})
	}
	if forms > 0 {
		score += 5
	}
	if linkDensity > 0.5 {
		score -= 15
		res.Findings = append(res.Findings, model.Finding{
			Key:         "link-farm",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("link text is %.0f%% of the body copy", linkDensity*100),
			Value:       linkDensity,
		})
	}

	res.SubScore = scoring.Clamp(score)
	return res, nil
}
