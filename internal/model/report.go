package model

import "time"

// CombinedScore is the combine phase's final per-category and overall view.
// Overall may differ from the rules-derived score when the enhancement phase
// supplied an override.
type CombinedScore struct {
	PerCategory map[string]int `json:"per_category"`
	Overall     int            `json:"overall"`
	Grade       string         `json:"grade"`

	// Overridden marks that the enhancement phase replaced the rules-derived
	// score. The original value is kept for auditability.
	Overridden    bool `json:"overridden,omitempty"`
	RulesScore    int  `json:"rules_score,omitempty"`
}

// RunSummary counts the units that failed inside an otherwise successful run.
type RunSummary struct {
	FailedDetectors  int `json:"failed_detectors"`
	FailedHeuristics int `json:"failed_heuristics"`
}

// AnalysisReport is the sole externally observable artifact of a pipeline
// run. A run that contains failed detectors or heuristics is still
// Success=true; the failures are marked inside the bundles and counted in
// Summary. Only a configure-phase abort produces Success=false.
type AnalysisReport struct {
	ID      string         `json:"id"`
	Success bool           `json:"success"`
	Target  AnalysisTarget `json:"target"`

	StartedAt       time.Time `json:"started_at"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`

	Detection  DetectionBundle    `json:"detection,omitempty"`
	Heuristics HeuristicBundle    `json:"heuristics,omitempty"`
	Rules      *OverallAssessment `json:"rules,omitempty"`
	Enhance    *EnhancementResult `json:"enhancement,omitempty"`
	Combined   *CombinedScore     `json:"combined,omitempty"`

	Insights        []string `json:"insights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Issues          []string `json:"issues,omitempty"`

	Summary RunSummary `json:"summary"`

	// PageText is the extracted visible text of the audited document. The
	// audit archive diffs it between runs of the same target.
	PageText string `json:"page_text,omitempty"`

	// Error and Fallback are only populated on the reduced configure-abort
	// shape ({success:false, error, fallback}).
	Error    string         `json:"error,omitempty"`
	Fallback *FallbackState `json:"fallback,omitempty"`
}

// FallbackState is the best-effort payload attached to a configure-phase
// abort so the caller always receives something actionable.
type FallbackState struct {
	HadDocument bool   `json:"had_document"`
	Reason      string `json:"reason,omitempty"`
}
