package rules

import (
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
)

// Snapshot is the flat metrics view the rules phase queries. Keys are
// "<unit>.<metric>" (e.g. "content.word_count", "readability.sub_score"),
// assembled from the detection and heuristic bundles.
type Snapshot map[string]float64

// Get looks up a metric by key.
func (s Snapshot) Get(key string) (float64, bool) {
	v, ok := s[key]
	return v, ok
}

// Rule is a single named, weighted predicate over a metrics snapshot.
// Rules must be pure and side-effect-free: same snapshot in, same verdict
// out. Weight expresses relative importance within the rule's category, not
// a probability.
type Rule struct {
	ID          string
	Description string
	Category    string

	// Weight in (0, 1]; rules with Weight <= 0 are normalized to 1.
	Weight float64

	// Evaluate returns the verdict for this rule. An error (or panic) inside
	// Evaluate is converted to a failed, high-impact verdict by the engine;
	// it never aborts the category.
	Evaluate func(s Snapshot) (model.RuleVerdict, error)
}

func (r Rule) weight() float64 {
	if r.Weight <= 0 {
		return 1
	}
	return r.Weight
}

// MinRule builds a rule that passes when the metric exists and is >= min.
// A missing metric fails the rule with the given impact.
func MinRule(id, description, category string, weight float64, metric string, min float64, impact model.Impact) Rule {
	return Rule{
		ID:          id,
		Description: description,
		Category:    category,
		Weight:      weight,
		Evaluate: func(s Snapshot) (model.RuleVerdict, error) {
			threshold := min
			v, ok := s.Get(metric)
			if !ok {
				return model.RuleVerdict{Passed: false, Threshold: &threshold, Impact: impact}, nil
			}
			return model.RuleVerdict{
				Passed:    v >= min,
				Observed:  v,
				Threshold: &threshold,
				Impact:    impact,
			}, nil
		},
	}
}

// MaxRule builds a rule that passes when the metric exists and is <= max.
func MaxRule(id, description, category string, weight float64, metric string, max float64, impact model.Impact) Rule {
	return Rule{
		ID:          id,
		Description: description,
		Category:    category,
		Weight:      weight,
		Evaluate: func(s Snapshot) (model.RuleVerdict, error) {
			threshold := max
			v, ok := s.Get(metric)
			if !ok {
				return model.RuleVerdict{Passed: false, Threshold: &threshold, Impact: impact}, nil
			}
			return model.RuleVerdict{
				Passed:    v <= max,
				Observed:  v,
				Threshold: &threshold,
				Impact:    impact,
			}, nil
		},
	}
}

// PresenceRule builds a rule that passes when the metric is present and
// non-zero (detectors encode booleans as 0/1 metrics).
func PresenceRule(id, description, category string, weight float64, metric string, impact model.Impact) Rule {
	return Rule{
		ID:          id,
		Description: description,
		Category:    category,
		Weight:      weight,
		Evaluate: func(s Snapshot) (model.RuleVerdict, error) {
			v, ok := s.Get(metric)
			if !ok {
				return model.RuleVerdict{Passed: false, Impact: impact}, nil
			}
			return model.RuleVerdict{Passed: v != 0, Observed: v, Impact: impact}, nil
		},
	}
}

// validate checks a rule definition at engine construction time.
func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule with empty ID")
	}
	if r.Category == "" {
		return fmt.Errorf("rule %q has no category", r.ID)
	}
	if r.Evaluate == nil {
		return fmt.Errorf("rule %q has no Evaluate body", r.ID)
	}
	if r.Weight < 0 || r.Weight > 1 {
		return fmt.Errorf("rule %q weight %v outside [0,1]", r.ID, r.Weight)
	}
	return nil
}
