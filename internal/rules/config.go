package rules

import (
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// Config carries the engine's static tuning: compliance boundaries, the
// effort table used when ranking opportunities and optional per-rule score
// gain overrides. Category weights are supplied per evaluation call, not
// here, because callers tune them per run.
type Config struct {
	// Compliance boundaries; see scoring.Compliance.
	Compliance scoring.ComplianceThresholds

	// EffortByRule estimates the cost of fixing a failed rule, keyed by rule
	// ID. Rules absent from the table default to DefaultEffort.
	EffortByRule map[string]model.Effort

	// DefaultEffort applies when EffortByRule has no entry.
	DefaultEffort model.Effort

	// GainByRule overrides the estimated score gain of fixing a rule, keyed
	// by rule ID. When absent the gain is derived from the rule's category
	// weight at evaluation time.
	GainByRule map[string]float64
}

// DefaultConfig returns the stock engine tuning.
func DefaultConfig() Config {
	return Config{
		Compliance:    scoring.DefaultComplianceThresholds(),
		DefaultEffort: model.EffortMedium,
	}
}

func (c Config) effortFor(ruleID string) model.Effort {
	if e, ok := c.EffortByRule[ruleID]; ok {
		return e
	}
	if c.DefaultEffort != "" {
		return c.DefaultEffort
	}
	return model.EffortMedium
}
