package enhance

import (
	"context"
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// CalibrationEnhancer is a local, deterministic enhancer: it nudges the
// rules-derived score when the heuristic sub-scores disagree with it by a
// wide margin. It stands in for an external model-backed enhancer in
// deployments that run fully offline.
type CalibrationEnhancer struct {
	// MaxAdjustment caps how far calibration may move the overall score.
	MaxAdjustment float64
}

// NewCalibrationEnhancer returns an enhancer with the stock ±5 point cap.
func NewCalibrationEnhancer() *CalibrationEnhancer {
	return &CalibrationEnhancer{MaxAdjustment: 5}
}

func (e *CalibrationEnhancer) Name() string { return "calibration" }

func (e *CalibrationEnhancer) Enhance(ctx context.Context, detection model.DetectionBundle, heuristics model.HeuristicBundle, assessment *model.OverallAssessment) (*model.EnhancementResult, error) {
	if assessment == nil {
		return nil, fmt.Errorf("calibration: nil rules assessment")
	}

	var sum float64
	var n int
	for _, h := range heuristics {
		if h != nil && h.Success {
			sum += h.SubScore
			n++
		}
	}
	if n == 0 {
		// Nothing to calibrate against; no override.
		return &model.EnhancementResult{
			Notes:   []string{"no successful heuristics, score left unchanged"},
			Success: true,
		}, nil
	}

	heuristicMean := sum / float64(n)
	delta := heuristicMean - float64(assessment.OverallScore)
	if delta > e.MaxAdjustment {
		delta = e.MaxAdjustment
	}
	if delta < -e.MaxAdjustment {
		delta = -e.MaxAdjustment
	}
	if delta > -1 && delta < 1 {
		return &model.EnhancementResult{
			Notes:   []string{"heuristics agree with the rules score, no override"},
			Success: true,
		}, nil
	}

	adjusted := scoring.Clamp(float64(assessment.OverallScore) + delta)
	return &model.EnhancementResult{
		OverrideScore: &adjusted,
		OverrideGrade: scoring.Grade(scoring.Round(adjusted)),
		Notes: []string{
			fmt.Sprintf("heuristic mean %.1f vs rules score %d, adjusted by %+.1f", heuristicMean, assessment.OverallScore, delta),
		},
		Success: true,
	}, nil
}
