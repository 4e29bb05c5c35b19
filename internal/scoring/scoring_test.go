package scoring_test

import (
	"testing"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// TestGrade_BandingIsTotalAndMonotonic walks every integer score and checks
// that exactly one band applies and that grades never improve as the score
// drops.
func TestGrade_BandingIsTotalAndMonotonic(t *testing.T) {
	t.Parallel()

	prevRank := -1
	for s := 100; s >= 0; s-- {
		g := scoring.Grade(s)
		if g == "" {
			t.Fatalf("no grade band for score %d", s)
		}
		rank := scoring.GradeRank(g)
		if rank == 0 {
			t.Fatalf("grade %q for score %d has no rank", g, s)
		}
		if prevRank != -1 && rank > prevRank {
			t.Errorf("grade rank increased from %d to %d as score dropped to %d", prevRank, rank, s)
		}
		prevRank = rank
	}
}

func TestGrade_KnownBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  string
	}{
		{100, "A+"}, {95, "A+"}, {94, "A"}, {90, "A"}, {89, "A-"},
		{85, "A-"}, {80, "B+"}, {75, "B"}, {70, "B-"}, {65, "C+"},
		{60, "C"}, {55, "C-"}, {50, "D"}, {49, "F"}, {0, "F"},
	}
	for _, c := range cases {
		if got := scoring.Grade(c.score); got != c.want {
			t.Errorf("Grade(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := scoring.Clamp(-5); got != 0 {
		t.Errorf("Clamp(-5) = %v, want 0", got)
	}
	if got := scoring.Clamp(140); got != 100 {
		t.Errorf("Clamp(140) = %v, want 100", got)
	}
	if got := scoring.Clamp(62.5); got != 62.5 {
		t.Errorf("Clamp(62.5) = %v, want 62.5", got)
	}
}

func TestCompliance_Thresholds(t *testing.T) {
	t.Parallel()

	th := scoring.DefaultComplianceThresholds()
	if got := scoring.Compliance(90, th); got != model.Compliant {
		t.Errorf("Compliance(90) = %v, want compliant", got)
	}
	if got := scoring.Compliance(89, th); got != model.Partial {
		t.Errorf("Compliance(89) = %v, want partial", got)
	}
	if got := scoring.Compliance(70, th); got != model.Partial {
		t.Errorf("Compliance(70) = %v, want partial", got)
	}
	if got := scoring.Compliance(69, th); got != model.NonCompliant {
		t.Errorf("Compliance(69) = %v, want non_compliant", got)
	}

	// Per-deployment tuning moves the boundaries.
	custom := scoring.ComplianceThresholds{Compliant: 80, Partial: 50}
	if got := scoring.Compliance(80, custom); got != model.Compliant {
		t.Errorf("custom Compliance(80) = %v, want compliant", got)
	}
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	got := scoring.WeightedMean([]float64{100, 0}, []float64{0.6, 0.4})
	if got != 60 {
		t.Errorf("WeightedMean = %v, want 60", got)
	}

	// Zero-weight entries are skipped entirely.
	got = scoring.WeightedMean([]float64{100, 0}, []float64{0.6, 0})
	if got != 100 {
		t.Errorf("WeightedMean with skipped entry = %v, want 100", got)
	}

	// No weight at all degrades to 0, never NaN.
	got = scoring.WeightedMean(nil, nil)
	if got != 0 {
		t.Errorf("WeightedMean(nil) = %v, want 0", got)
	}
}
