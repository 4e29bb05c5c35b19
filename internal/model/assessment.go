package model

// Effort buckets the estimated cost of acting on an opportunity.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Compliance is the coarse classification derived from the overall score.
type Compliance string

const (
	Compliant    Compliance = "compliant"
	Partial      Compliance = "partial"
	NonCompliant Compliance = "non_compliant"
)

// RuleVerdict is the outcome of evaluating a single rule against a metrics
// snapshot.
type RuleVerdict struct {
	RuleID      string  `json:"rule_id"`
	Description string  `json:"description,omitempty"`
	Passed      bool    `json:"passed"`
	Observed    float64 `json:"observed"`

	// Threshold is the boundary the rule compared against, when it has one.
	Threshold *float64 `json:"threshold,omitempty"`

	Impact Impact `json:"impact"`

	// Error records a rule body that failed to evaluate. Such verdicts are
	// always Passed=false with ImpactHigh.
	Error string `json:"error,omitempty"`
}

// CategoryResult aggregates the verdicts of one rule category.
//
// Invariant: Score is the weight-normalized percentage of weighted rules that
// passed. A category with zero executed rules has Score=0 and Executed=0 and
// is excluded from the overall weighted average, never counted as a failing 0.
type CategoryResult struct {
	Category    string        `json:"category"`
	Verdicts    []RuleVerdict `json:"verdicts"`
	PassedCount int           `json:"passed_count"`
	FailedCount int           `json:"failed_count"`
	Score       int           `json:"score"`
	Executed    int           `json:"executed"`
}

// Opportunity is a failed rule surfaced as a ranked improvement
// recommendation. Ranking is by impact-to-effort ratio, descending.
type Opportunity struct {
	RuleID             string  `json:"rule_id"`
	Description        string  `json:"description,omitempty"`
	Category           string  `json:"category"`
	Impact             Impact  `json:"impact"`
	Effort             Effort  `json:"effort"`
	EstimatedScoreGain float64 `json:"estimated_score_gain"`
}

// OverallAssessment is the rules engine's complete output: weighted overall
// score, letter grade, compliance classification and ranked opportunities.
// The engine never fails; a total-failure path still yields a zero-score
// assessment with Error set.
type OverallAssessment struct {
	OverallScore  int              `json:"overall_score"`
	Grade         string           `json:"grade"`
	Compliance    Compliance       `json:"compliance"`
	Categories    []CategoryResult `json:"categories"`
	Opportunities []Opportunity    `json:"opportunities,omitempty"`
	Error         string           `json:"error,omitempty"`
}
