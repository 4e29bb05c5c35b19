package detector

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// SEODetector inspects the head and image markup for the basics search
// engines index on: title, meta description, canonical link, h1 structure,
// alt coverage and open-graph tags.
type SEODetector struct{}

func (d *SEODetector) Name() string { return "seo" }

func (d *SEODetector) Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error) {
	title := doc.Title()
	metaDesc := doc.MetaContent("description")
	h1Count := doc.Count("h1")
	canonical := doc.Count(`link[rel="canonical"]`)
	ogTags := doc.Count(`meta[property^="og:"]`)

	imgs := doc.Count("img")
	imgsWithAlt := doc.Count("img[alt]")
	altRatio := 1.0
	if imgs > 0 {
		altRatio = float64(imgsWithAlt) / float64(imgs)
	}

	boolMetric := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}

	res := &model.DetectorResult{
		Name: d.Name(),
		Metrics: map[string]float64{
			"title_length":         float64(len(title)),
			"has_meta_description": boolMetric(metaDesc != ""),
			"has_canonical":        boolMetric(canonical > 0),
			"h1_count":             float64(h1Count),
			"og_tag_count":         float64(ogTags),
			"img_count":            float64(imgs),
			"img_alt_ratio":        altRatio,
		},
		Success: true,
	}

	score := 70.0
	if title == "" {
		score -= 25
		res.Findings = append(res.Findings, model.Finding{
			Key:         "missing-title",
			Impact:      model.ImpactHigh,
			Description: "document has no title",
			Selector:    "head > title",
		})
	} else if len(title) > 70 {
		score -= 5
		res.Findings = append(res.Findings, model.Finding{
			Key:         "overlong-title",
			Impact:      model.ImpactLow,
			Description: fmt.Sprintf("title is %d characters, search engines truncate near 70", len(title)),
			Value:       len(title),
		})
	} else {
		score += 10
	}
	if metaDesc == "" {
		score -= 15
		res.Findings = append(res.Findings, model.Finding{
			Key:         "missing-meta-description",
			Impact:      model.ImpactHigh,
			Description: "no meta description declared",
		})
	} else {
		score += 10
	}
	if h1Count != 1 {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "h1-count",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("expected exactly one h1, found %d", h1Count),
			Value:       h1Count,
		})
	}
	if imgs > 0 && altRatio < cfg.MinImgAltRatio {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "missing-alt",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("only %.0f%% of images carry alt text", altRatio*100),
			Value:       altRatio,
			Selector:    "img:not([alt])",
		})
	}
	if canonical > 0 {
		score += 5
	}
	if ogTags > 0 {
		score += 5
	}

	res.SubScore = scoring.Clamp(score)
	return res, nil
}
