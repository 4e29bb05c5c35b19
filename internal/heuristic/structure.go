package heuristic

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// StructureHeuristic judges document organization from the content and seo
// detectors: heading use, heading-to-copy balance and h1 discipline.
type StructureHeuristic struct{}

func (h *StructureHeuristic) Name() string { return "structure" }

func (h *StructureHeuristic) Analyze(ctx context.Context, detection model.DetectionBundle, prior model.HeuristicBundle, cfg Config) (*model.HeuristicResult, error) {
	headings, ok := detection.Metric("content", "heading_count")
	if !ok {
		return nil, fmt.Errorf("structure: content detector metrics unavailable")
	}
	words, _ := detection.Metric("content", "word_count")
	h1s, hasSEO := detection.Metric("seo", "h1_count")

	score := 70.0
	judgment := "organized"

	if headings == 0 {
		judgment = "flat"
		score = 45
	} else if words > 0 && words/headings > 400 {
		// Long stretches of copy without a heading break.
		judgment = "wall-of-text"
		score = 55
	} else {
		score = 85
	}
	if hasSEO && h1s != 1 {
		score -= 10
	}

	return &model.HeuristicResult{
		Name:     h.Name(),
		Judgment: judgment,
		SubScore: scoring.Clamp(score),
		Details: map[string]any{
			"heading_count": headings,
		},
		Success: true,
	}, nil
}
