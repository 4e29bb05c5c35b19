package scoring

import (
	"math"

	"github.com/pagelens/pagelens/internal/model"
)

// Clamp bounds a score to [0, 100].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Round converts a clamped score to the integer form used in reports.
func Round(score float64) int {
	return int(math.Round(Clamp(score)))
}

// gradeBand is one entry in the banding table. Bands are checked top-down;
// the table must stay sorted by Min descending so banding is gapless and
// monotonic over [0,100].
type gradeBand struct {
	Min   int
	Grade string
}

var gradeBands = []gradeBand{
	{95, "A+"},
	{90, "A"},
	{85, "A-"},
	{80, "B+"},
	{75, "B"},
	{70, "B-"},
	{65, "C+"},
	{60, "C"},
	{55, "C-"},
	{50, "D"},
	{0, "F"},
}

// Grade maps a 0-100 score to its letter grade.
func Grade(score int) string {
	for _, b := range gradeBands {
		if score >= b.Min {
			return b.Grade
		}
	}
	return "F"
}

// GradeRank orders grades for comparisons: higher rank means a better grade.
func GradeRank(grade string) int {
	for i, b := range gradeBands {
		if b.Grade == grade {
			return len(gradeBands) - i
		}
	}
	return 0
}

// ComplianceThresholds are deployment-tunable boundaries for the coarse
// compliance classification.
type ComplianceThresholds struct {
	// Compliant is the minimum overall score classified as compliant.
	Compliant int

	// Partial is the minimum overall score classified as partial; anything
	// below is non_compliant.
	Partial int
}

// DefaultComplianceThresholds returns the stock 90/70 boundaries.
func DefaultComplianceThresholds() ComplianceThresholds {
	return ComplianceThresholds{Compliant: 90, Partial: 70}
}

// Compliance classifies an overall score against the given thresholds.
func Compliance(score int, t ComplianceThresholds) model.Compliance {
	switch {
	case score >= t.Compliant:
		return model.Compliant
	case score >= t.Partial:
		return model.Partial
	default:
		return model.NonCompliant
	}
}

// WeightedMean computes Σ(wᵢ·vᵢ)/Σwᵢ over paired slices. Entries with
// non-positive weight are skipped. Returns 0 when no weight remains, so a
// caller that filtered everything out gets a neutral zero rather than NaN.
func WeightedMean(values, weights []float64) float64 {
	if len(values) != len(weights) {
		return 0
	}
	var sum, wsum float64
	for i, v := range values {
		w := weights[i]
		if w <= 0 {
			continue
		}
		sum += w * v
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// ImpactWeight maps qualitative impact to a numeric weight for ranking.
func ImpactWeight(i model.Impact) float64 {
	switch i {
	case model.ImpactHigh:
		return 3
	case model.ImpactMedium:
		return 2
	case model.ImpactLow:
		return 1
	default:
		return 2
	}
}

// EffortWeight maps qualitative effort to a numeric divisor for ranking.
func EffortWeight(e model.Effort) float64 {
	switch e {
	case model.EffortHigh:
		return 3
	case model.EffortMedium:
		return 2
	case model.EffortLow:
		return 1
	default:
		return 2
	}
}
