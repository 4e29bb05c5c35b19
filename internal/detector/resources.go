package detector

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// ResourcesDetector counts the page's resource load: scripts, stylesheets,
// images and iframes, distinguishing inline from external scripts.
type ResourcesDetector struct{}

func (d *ResourcesDetector) Name() string { return "resources" }

func (d *ResourcesDetector) Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error) {
	scripts := doc.Count("script")
	externalScripts := doc.Count("script[src]")
	inlineScripts := scripts - externalScripts
	stylesheets := doc.Count(`link[rel="stylesheet"]`) + doc.Count("style")
	imgs := doc.Count("img")
	iframes := doc.Count("iframe")

	res := &model.DetectorResult{
		Name: d.Name(),
		Metrics: map[string]float64{
			"script_count":          float64(scripts),
			"external_script_count": float64(externalScripts),
			"inline_script_count":   float64(inlineScripts),
			"stylesheet_count":      float64(stylesheets),
			"img_count":             float64(imgs),
			"iframe_count":          float64(iframes),
			"page_bytes":            float64(doc.RawSize()),
		},
		Success: true,
	}

	score := 75.0
	if scripts > cfg.MaxScripts {
		score -= 20
		res.Findings = append(res.Findings, model.Finding{
			Key:         "script-bloat",
			Impact:      model.ImpactHigh,
			Description: fmt.Sprintf("%d script tags (budget %d)", scripts, cfg.MaxScripts),
			Value:       scripts,
		})
	} else {
		score += 10
	}
	if inlineScripts > 5 {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "inline-scripts",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("%d inline scripts block parsing and defeat caching", inlineScripts),
			Value:       inlineScripts,
		})
	}
	if iframes > 2 {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "iframe-heavy",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("%d iframes embedded", iframes),
			Value:       iframes,
		})
	}
	if stylesheets <= 10 {
		score += 5
	}

	res.SubScore = scoring.Clamp(score)
	return res, nil
}
