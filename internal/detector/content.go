package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// ContentDetector measures the amount and shape of body copy: word count,
// paragraph structure and the text-to-markup ratio.
type ContentDetector struct{}

func (d *ContentDetector) Name() string { return "content" }

func (d *ContentDetector) Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error) {
	text := doc.BodyText()
	words := len(strings.Fields(text))
	paragraphs := doc.Count("p")
	headings := doc.Count("h1, h2, h3, h4, h5, h6")

	textRatio := 0.0
	if doc.RawSize() > 0 {
		textRatio = float64(len(text)) / float64(doc.RawSize())
	}

	res := &model.DetectorResult{
		Name: d.Name(),
		Metrics: map[string]float64{
			"word_count":      float64(words),
			"paragraph_count": float64(paragraphs),
			"heading_count":   float64(headings),
			"text_ratio":      textRatio,
		},
		Success: true,
	}

	score := 65.0
	if words >= cfg.MinWordCount {
		score += 20
	} else {
		score -= 25
		res.Findings = append(res.Findings, model.Finding{
			Key:         "thin-content",
			Impact:      model.ImpactHigh,
			Description: fmt.Sprintf("only %d words of body copy (want >= %d)", words, cfg.MinWordCount),
			Value:       words,
		})
	}
	if paragraphs >= 3 {
		score += 5
	}
	if headings > 0 {
		score += 10
	} else {
		res.Findings = append(res.Findings, model.Finding{
			Key:         "no-headings",
			Impact:      model.ImpactMedium,
			Description: "body copy has no headings",
		})
	}
	if textRatio < 0.05 {
		score -= 10
		res.Findings = append(res.Findings, model.Finding{
			Key:         "markup-heavy",
			Impact:      model.ImpactLow,
			Description: fmt.Sprintf("visible text is only %.1f%% of the markup", textRatio*100),
			Value:       textRatio,
		})
	}

	res.SubScore = scoring.Clamp(score)
	return res, nil
}
