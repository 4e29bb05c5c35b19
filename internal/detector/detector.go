package detector

import (
	"context"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
)

// Detector is a stateless analysis unit: it extracts metrics from the
// document and returns a sub-score plus structured findings. Detectors are
// mutually independent, must not rely on each other's results, and must
// treat the shared document snapshot as read-only (the detect phase runs
// them concurrently against the same snapshot).
//
// A returned error (or a panic) is caught by the orchestrator and recorded
// as a Success=false entry in the detection bundle; it never aborts the run.
type Detector interface {
	// Name is the detector's stable key in the DetectionBundle and the
	// prefix of its metric keys in the rules snapshot.
	Name() string

	Detect(ctx context.Context, doc *document.Document, cfg Config) (*model.DetectorResult, error)
}

// Config carries the thresholds detectors report findings against. These
// tune when a finding is emitted, not how rules score; the rules catalog has
// its own thresholds.
type Config struct {
	// MinWordCount below which the content detector flags thin content.
	MinWordCount int

	// MaxScripts above which the resources detector flags script bloat.
	MaxScripts int

	// MinImgAltRatio below which the seo detector flags missing alt text.
	MinImgAltRatio float64
}

// DefaultConfig returns sensible audit defaults.
func DefaultConfig() Config {
	return Config{
		MinWordCount:   300,
		MaxScripts:     25,
		MinImgAltRatio: 0.8,
	}
}

// All returns the full stock detector set in no particular order; the detect
// phase provides no ordering guarantees anyway.
func All() []Detector {
	return []Detector{
		&ContentDetector{},
		&SEODetector{},
		&ResourcesDetector{},
		&MobileDetector{},
		&EngagementDetector{},
	}
}
