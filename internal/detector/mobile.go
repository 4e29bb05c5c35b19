package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// MobileDetector checks the markers of a mobile-friendly layout: a
// responsive viewport declaration and the absence of fixed-width elements.
type MobileDetector struct{}

func (d *MobileDetector) Name() string { return "mobile" }

func (d *MobileDetector) Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error) {
	viewport := doc.MetaContent("viewport")
	hasViewport := strings.Contains(viewport, "width=device-width")

	// Elements with an explicit pixel width attribute force horizontal
	// scrolling on narrow screens.
	fixedWidth := doc.Count("table[width]") + doc.Count("td[width]")

	boolMetric := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}

	res := &model.DetectorResult{
		Name: d.Name(),
		Metrics: map[string]float64{
			"has_viewport":      boolMetric(hasViewport),
			"fixed_width_count": float64(fixedWidth),
		},
		Success: true,
	}

	score := 70.0
	if hasViewport {
		score += 25
	} else {
		score -= 30
		res.Findings = append(res.Findings, model.Finding{
			Key:         "no-viewport",
			Impact:      model.ImpactHigh,
			Description: "no responsive viewport meta tag",
			Selector:    `meta[name="viewport"]`,
		})
	}
	if fixedWidth > 0 {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "fixed-width",
			Impact:      model.ImpactMedium,
			Description: fmt.Sprintf("%d fixed-width layout elements", fixedWidth),
			Value:       fixedWidth,
		})
	}

	res.SubScore = scoring.Clamp(score)
	return res, nil
}
