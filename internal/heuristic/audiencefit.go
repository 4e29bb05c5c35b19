package heuristic

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// AudienceFitHeuristic combines readability's prior judgment with the
// engagement detector's metrics to judge whether the page fits a general
// audience. It must run after ReadabilityHeuristic: the orchestrator's
// declared order is part of this heuristic's contract.
type AudienceFitHeuristic struct{}

func (h *AudienceFitHeuristic) Name() string { return "audience-fit" }

func (h *AudienceFitHeuristic) Analyze(ctx context.Context, detection model.DetectionBundle, prior model.HeuristicBundle, cfg Config) (*model.HeuristicResult, error) {
	readability, ok := prior["readability"]
	if !ok || readability == nil || !readability.Success {
		return nil, fmt.Errorf("audience-fit: requires the readability heuristic to have run first")
	}

	media, _ := detection.Metric("engagement", "media_count")
	internalLinks, _ := detection.Metric("engagement", "internal_link_count")

	score := readability.SubScore
	judgment := "general"
	switch readability.Judgment {
	case "dense":
		judgment = "specialist"
		score -= 10
	case "sparse":
		judgment = "unclear"
		score -= 5
	case "easy":
		judgment = "broad"
		score += 5
	}
	if media > 0 {
		score += 5
	}
	if internalLinks >= 3 {
		score += 5
	}

	return &model.HeuristicResult{
		Name:     h.Name(),
		Judgment: judgment,
		SubScore: scoring.Clamp(score),
		Details: map[string]any{
			"based_on": readability.Judgment,
		},
		Success: true,
	}, nil
}
