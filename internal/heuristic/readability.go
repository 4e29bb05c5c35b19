package heuristic

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// ReadabilityHeuristic judges how approachable the body copy is from the
// content detector's shape metrics. It does not re-read the document; the
// detection bundle is its only input.
type ReadabilityHeuristic struct{}

func (h *ReadabilityHeuristic) Name() string { return "readability" }

func (h *ReadabilityHeuristic) Analyze(ctx context.Context, detection model.DetectionBundle, prior model.HeuristicBundle, cfg Config) (*model.HeuristicResult, error) {
	words, ok := detection.Metric("content", "word_count")
	if !ok {
		return nil, fmt.Errorf("readability: content detector metrics unavailable")
	}
	paragraphs, _ := detection.Metric("content", "paragraph_count")

	wordsPerParagraph := words
	if paragraphs > 0 {
		wordsPerParagraph = words / paragraphs
	}

	judgment := "balanced"
	score := 75.0
	switch {
	case words < 50:
		judgment = "sparse"
		score = 40
	case wordsPerParagraph <= cfg.EasyWordsPerParagraph:
		judgment = "easy"
		score = 90
	case wordsPerParagraph >= cfg.DenseWordsPerParagraph:
		judgment = "dense"
		score = 55
	}

	return &model.HeuristicResult{
		Name:     h.Name(),
		Judgment: judgment,
		SubScore: scoring.Clamp(score),
		Details: map[string]any{
			"words_per_paragraph": wordsPerParagraph,
		},
		Success: true,
	}, nil
}
