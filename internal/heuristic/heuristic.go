package heuristic

import (
	"context"

	"github.com/pagelens/pagelens/internal/model"
)

// Heuristic is an analysis unit that consumes detector output (and the
// results of heuristics that ran before it) to produce a higher-level
// judgment. Unlike detectors, heuristics run strictly sequentially in the
// order the orchestrator declares, and may rely on that order: a heuristic
// sees the HeuristicBundle exactly as populated by its predecessors.
//
// A returned error (or a panic) is caught by the orchestrator and recorded
// as a Success=false entry; later heuristics still run.
type Heuristic interface {
	// Name is the heuristic's stable key in the HeuristicBundle.
	Name() string

	Analyze(ctx context.Context, detection model.DetectionBundle, prior model.HeuristicBundle, cfg Config) (*model.HeuristicResult, error)
}

// Config tunes the stock heuristics' judgment boundaries.
type Config struct {
	// EasyWordsPerParagraph is the upper bound per paragraph below which
	// readability judges the copy "easy".
	EasyWordsPerParagraph float64

	// DenseWordsPerParagraph is the bound above which copy is "dense".
	DenseWordsPerParagraph float64
}

// DefaultConfig returns the stock judgment boundaries.
func DefaultConfig() Config {
	return Config{
		EasyWordsPerParagraph:  80,
		DenseWordsPerParagraph: 200,
	}
}

// All returns the stock heuristics in their declared execution order. The
// order matters: audience-fit consumes readability's judgment.
func All() []Heuristic {
	return []Heuristic{
		&ReadabilityHeuristic{},
		&StructureHeuristic{},
		&AudienceFitHeuristic{},
	}
}
