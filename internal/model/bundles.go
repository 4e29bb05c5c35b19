package model

// Impact buckets the qualitative severity of a finding or a failed rule.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Finding is one structured observation produced by a detector.
// Example: {Key: "missing-alt", Impact: "medium", Description: "3 images have no alt text"}.
type Finding struct {
	// Key is a short identifier for the finding (e.g. "thin-content", "no-viewport").
	Key string `json:"key"`

	// Impact is a human-level severity bucket.
	Impact Impact `json:"impact"`

	// Description is a short human-readable explanation.
	Description string `json:"description"`

	// Value contains the raw value that triggered the finding, when useful.
	Value any `json:"value,omitempty"`

	// Selector optionally points at the DOM element(s) the finding refers to.
	Selector string `json:"selector,omitempty"`
}

// DetectorResult is the output of one detector run. Detectors are mutually
// independent; a failed detector still produces an entry with Success=false
// so partial results stay auditable.
type DetectorResult struct {
	Name string `json:"name"`

	// Metrics are the extracted numeric features (metricName -> value). The
	// rules phase queries these by "<detector>.<metric>" keys.
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// SubScore is the detector's own 0-100 assessment of its slice of the page.
	SubScore float64 `json:"sub_score"`

	Findings []Finding `json:"findings,omitempty"`

	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// DetectionBundle maps detector name -> result. It is built once per
// orchestrator run during the detect phase and is read-only afterwards.
type DetectionBundle map[string]*DetectorResult

// Failed returns the names of detectors that did not succeed.
func (b DetectionBundle) Failed() []string {
	var out []string
	for name, r := range b {
		if r == nil || !r.Success {
			out = append(out, name)
		}
	}
	return out
}

// Metric looks up "<detector>.<metric>" style keys. ok is false when the
// detector is absent, failed, or never produced the metric.
func (b DetectionBundle) Metric(detector, metric string) (float64, bool) {
	r, found := b[detector]
	if !found || r == nil || !r.Success || r.Metrics == nil {
		return 0, false
	}
	v, ok := r.Metrics[metric]
	return v, ok
}

// HeuristicResult is the output of one heuristic analyzer. Heuristics run in
// declared order and may consume both the detection bundle and the results of
// heuristics that ran before them.
type HeuristicResult struct {
	Name string `json:"name"`

	// Judgment is the heuristic's qualitative conclusion (e.g. "easy", "dense").
	Judgment string `json:"judgment,omitempty"`

	// SubScore is the heuristic's 0-100 assessment.
	SubScore float64 `json:"sub_score"`

	// Details carries any auxiliary structured output later heuristics or the
	// combine phase may want.
	Details map[string]any `json:"details,omitempty"`

	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// HeuristicBundle maps heuristic name -> result. It is appended to
// incrementally as heuristics run; heuristic N sees entries for heuristics
// 1..N-1 and nothing else.
type HeuristicBundle map[string]*HeuristicResult

// Failed returns the names of heuristics that did not succeed.
func (b HeuristicBundle) Failed() []string {
	var out []string
	for name, r := range b {
		if r == nil || !r.Success {
			out = append(out, name)
		}
	}
	return out
}

// EnhancementResult is the output of the optional enhancement phase. When
// OverrideScore is non-nil the combine phase prefers it over the
// rules-derived score.
type EnhancementResult struct {
	OverrideScore *float64 `json:"override_score,omitempty"`
	OverrideGrade string   `json:"override_grade,omitempty"`
	Notes         []string `json:"notes,omitempty"`
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
}
