package server

// StartAuditRequest is the payload for starting an asynchronous audit job.
type StartAuditRequest struct {
	URL string `json:"url" example:"https://example.com"`

	// Fresh bypasses the result cache and forces a recomputation.
	Fresh bool `json:"fresh,omitempty" example:"false"`

	// Detectors, Heuristics and Categories restrict the run; empty means all.
	Detectors  []string `json:"detectors,omitempty" example:"content,seo"`
	Heuristics []string `json:"heuristics,omitempty" example:"readability"`
	Categories []string `json:"categories,omitempty" example:"content,seo"`

	// SkipEnhancement disables the calibration step for this run.
	SkipEnhancement bool `json:"skip_enhancement,omitempty" example:"false"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
