package enhance

import (
	"context"

	"github.com/pagelens/pagelens/internal/model"
)

// Enhancer is the optional refinement step that runs after the rules phase.
// An enhancer may return an override score/grade which the combine phase
// prefers over the rules-derived values. Enhancer failures are non-fatal and
// leave the rules result untouched.
//
// External model-backed enhancers (the usual production deployment) satisfy
// this interface; the pipeline only depends on the contract.
type Enhancer interface {
	Name() string

	Enhance(ctx context.Context, detection model.DetectionBundle, heuristics model.HeuristicBundle, assessment *model.OverallAssessment) (*model.EnhancementResult, error)
}
