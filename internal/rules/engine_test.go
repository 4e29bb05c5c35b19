package rules_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/rules"
)

func passingRule(id, category string, weight float64) rules.Rule {
	return rules.Rule{
		ID: id, Category: category, Weight: weight,
		Evaluate: func(s rules.Snapshot) (model.RuleVerdict, error) {
			return model.RuleVerdict{Passed: true, Impact: model.ImpactLow}, nil
		},
	}
}

func failingRule(id, category string, weight float64, impact model.Impact) rules.Rule {
	return rules.Rule{
		ID: id, Category: category, Weight: weight,
		Evaluate: func(s rules.Snapshot) (model.RuleVerdict, error) {
			return model.RuleVerdict{Passed: false, Impact: impact}, nil
		},
	}
}

func newEngine(t *testing.T, cfg rules.Config, catalog []rules.Rule) *rules.Engine {
	t.Helper()
	e, err := rules.NewEngine(cfg, catalog, logging.NewNopLogger())
	require.NoError(t, err)
	return e
}

// TestEvaluate_TwoWeightedCategories reproduces the canonical weighted-mean
// scenario: category A scores 100 (2/2), category B scores 0 (0/2), weights
// {A:0.6, B:0.4} -> overall 60.
func TestEvaluate_TwoWeightedCategories(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), []rules.Rule{
		passingRule("a1", "A", 0.5),
		passingRule("a2", "A", 0.5),
		failingRule("b1", "B", 0.5, model.ImpactMedium),
		failingRule("b2", "B", 0.5, model.ImpactMedium),
	})

	got := e.Evaluate(rules.Snapshot{}, []string{"A", "B"}, map[string]float64{"A": 0.6, "B": 0.4})
	assert.Equal(t, 60, got.OverallScore)
	assert.Equal(t, "C", got.Grade)
	assert.Equal(t, model.NonCompliant, got.Compliance)
}

// TestEvaluate_EmptyCategoryIsExcluded verifies that a category with zero
// executed rules scores 0 but never drags the weighted overall down.
func TestEvaluate_EmptyCategoryIsExcluded(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), []rules.Rule{
		passingRule("a1", "A", 0.5),
		passingRule("a2", "A", 0.5),
	})

	// "B" is enabled but has no rules in the catalog.
	got := e.Evaluate(rules.Snapshot{}, []string{"A", "B"}, map[string]float64{"A": 0.6, "B": 0.4})
	assert.Equal(t, 100, got.OverallScore)

	var b *model.CategoryResult
	for i := range got.Categories {
		if got.Categories[i].Category == "B" {
			b = &got.Categories[i]
		}
	}
	require.NotNil(t, b)
	assert.Equal(t, 0, b.Score)
	assert.Equal(t, 0, b.Executed)
}

// TestEvaluate_RuleErrorIsIsolated verifies that an erroring rule becomes a
// failed high-impact verdict without aborting the category.
func TestEvaluate_RuleErrorIsIsolated(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), []rules.Rule{
		{
			ID: "boom", Category: "A", Weight: 0.5,
			Evaluate: func(s rules.Snapshot) (model.RuleVerdict, error) {
				return model.RuleVerdict{}, errors.New("lexicon unavailable")
			},
		},
		passingRule("ok", "A", 0.5),
	})

	got := e.Evaluate(rules.Snapshot{}, []string{"A"}, nil)
	require.Len(t, got.Categories, 1)
	cat := got.Categories[0]
	require.Len(t, cat.Verdicts, 2)

	var boom model.RuleVerdict
	for _, v := range cat.Verdicts {
		if v.RuleID == "boom" {
			boom = v
		}
	}
	assert.False(t, boom.Passed)
	assert.Equal(t, model.ImpactHigh, boom.Impact)
	assert.Contains(t, boom.Error, "lexicon unavailable")
	assert.Equal(t, 50, cat.Score)
}

// TestEvaluate_RulePanicIsIsolated verifies the same containment for a rule
// body that panics.
func TestEvaluate_RulePanicIsIsolated(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), []rules.Rule{
		{
			ID: "panics", Category: "A", Weight: 1,
			Evaluate: func(s rules.Snapshot) (model.RuleVerdict, error) {
				panic("nil deref in rule body")
			},
		},
		passingRule("ok", "A", 1),
	})

	got := e.Evaluate(rules.Snapshot{}, []string{"A"}, nil)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, 1, got.Categories[0].FailedCount)
	assert.Equal(t, 1, got.Categories[0].PassedCount)
}

// TestEvaluate_EmptySnapshotStillWellFormed covers the total-failure path.
func TestEvaluate_EmptySnapshotStillWellFormed(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), nil)
	got := e.Evaluate(rules.Snapshot{}, []string{"A"}, nil)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.OverallScore)
	assert.Equal(t, "F", got.Grade)
	assert.Equal(t, model.NonCompliant, got.Compliance)
	assert.NotEmpty(t, got.Error)
}

// TestEvaluate_ScoreMonotonicInPassedRules checks that flipping one more
// equally-weighted rule to passing never lowers the overall score.
func TestEvaluate_ScoreMonotonicInPassedRules(t *testing.T) {
	t.Parallel()

	const n = 6
	prev := -1
	for passed := 0; passed <= n; passed++ {
		var catalog []rules.Rule
		for i := 0; i < n; i++ {
			id := string(rune('a' + i))
			if i < passed {
				catalog = append(catalog, passingRule(id, "A", 0.5))
			} else {
				catalog = append(catalog, failingRule(id, "A", 0.5, model.ImpactLow))
			}
		}
		e := newEngine(t, rules.DefaultConfig(), catalog)
		got := e.Evaluate(rules.Snapshot{}, []string{"A"}, nil)
		assert.GreaterOrEqual(t, got.OverallScore, prev, "passed=%d", passed)
		assert.GreaterOrEqual(t, got.OverallScore, 0)
		assert.LessOrEqual(t, got.OverallScore, 100)
		prev = got.OverallScore
	}
}

// TestRankOpportunities_ImpactToEffortRatio verifies that a high-impact,
// low-effort fix outranks a high-impact, high-effort one.
func TestRankOpportunities_ImpactToEffortRatio(t *testing.T) {
	t.Parallel()

	cfg := rules.DefaultConfig()
	cfg.EffortByRule = map[string]model.Effort{
		"x": model.EffortLow,
		"y": model.EffortHigh,
	}
	e := newEngine(t, cfg, []rules.Rule{
		failingRule("y", "A", 0.5, model.ImpactHigh),
		failingRule("x", "A", 0.5, model.ImpactHigh),
	})

	got := e.Evaluate(rules.Snapshot{}, []string{"A"}, nil)
	require.Len(t, got.Opportunities, 2)
	assert.Equal(t, "x", got.Opportunities[0].RuleID)
	assert.Equal(t, "y", got.Opportunities[1].RuleID)
}

// TestRankOpportunities_GainTables checks configured vs derived score gains.
func TestRankOpportunities_GainTables(t *testing.T) {
	t.Parallel()

	cfg := rules.DefaultConfig()
	cfg.GainByRule = map[string]float64{"x": 42}
	e := newEngine(t, cfg, []rules.Rule{
		failingRule("x", "A", 0.5, model.ImpactMedium),
		failingRule("z", "B", 0.5, model.ImpactMedium),
	})

	got := e.Evaluate(rules.Snapshot{}, []string{"A", "B"}, map[string]float64{"A": 0.6, "B": 0.4})
	require.Len(t, got.Opportunities, 2)
	byID := map[string]model.Opportunity{}
	for _, o := range got.Opportunities {
		byID[o.RuleID] = o
	}
	assert.Equal(t, 42.0, byID["x"].EstimatedScoreGain)
	// Derived gain: 10 * category weight.
	assert.InDelta(t, 4.0, byID["z"].EstimatedScoreGain, 1e-9)
	assert.Equal(t, model.EffortMedium, byID["z"].Effort)
}

// TestEvaluate_IsPure runs the same evaluation twice and expects identical
// results, including opportunity order.
func TestEvaluate_IsPure(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), rules.DefaultCatalog())
	snap := rules.Snapshot{
		"content.word_count":      420,
		"content.paragraph_count": 5,
		"content.text_ratio":      0.2,
		"seo.title_length":        35,
		"mobile.has_viewport":     1,
	}
	first := e.Evaluate(snap, nil, rules.DefaultCategoryWeights())
	second := e.Evaluate(snap, nil, rules.DefaultCategoryWeights())
	assert.Equal(t, first, second)
}

// TestDefaultCatalog_Validates makes sure the stock catalog constructs.
func TestDefaultCatalog_Validates(t *testing.T) {
	t.Parallel()

	e := newEngine(t, rules.DefaultConfig(), rules.DefaultCatalog())
	assert.ElementsMatch(t,
		[]string{"content", "seo", "resources", "mobile", "engagement"},
		e.Categories())
}
