package rules

import (
	"fmt"
	"sort"

	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// Engine runs rule categories against a metrics snapshot and folds the
// verdicts into one weighted, graded OverallAssessment. Evaluate is a pure
// function of its inputs plus the engine's static configuration; it never
// returns an error and never panics outward.
type Engine struct {
	cfg    Config
	byCat  map[string][]Rule
	logger logging.Logger
}

// NewEngine validates the rule catalog and groups it by category.
func NewEngine(cfg Config, catalog []Rule, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	byCat := make(map[string][]Rule)
	for _, r := range catalog {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
		byCat[r.Category] = append(byCat[r.Category], r)
	}
	return &Engine{
		cfg:    cfg,
		byCat:  byCat,
		logger: logger.With(logging.Field{Key: "component", Value: "rules-engine"}),
	}, nil
}

// Categories returns the category names known to the engine's catalog.
func (e *Engine) Categories() []string {
	out := make([]string, 0, len(e.byCat))
	for c := range e.byCat {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Evaluate runs every rule of every enabled category over the snapshot.
//
// weights maps category name -> relative weight; it need not sum to 1, the
// weighted mean normalizes. Categories missing from the table get weight 1.
// A category that executed zero rules scores 0 but is excluded from the
// overall mean entirely, so it can never be mistaken for one that failed
// everything.
func (e *Engine) Evaluate(snap Snapshot, enabled []string, weights map[string]float64) *model.OverallAssessment {
	if len(enabled) == 0 {
		enabled = e.Categories()
	}
	sorted := append([]string(nil), enabled...)
	sort.Strings(sorted)

	var (
		categories []model.CategoryResult
		values     []float64
		catWeights []float64
	)
	for _, cat := range sorted {
		res := e.evaluateCategory(cat, snap)
		categories = append(categories, res)
		if res.Executed > 0 {
			w := 1.0
			if cw, ok := weights[cat]; ok {
				w = cw
			}
			values = append(values, float64(res.Score))
			catWeights = append(catWeights, w)
		}
	}

	assessment := &model.OverallAssessment{Categories: categories}
	if len(values) == 0 {
		// Total-failure path: nothing executed at all. Still a well-formed,
		// explainable result rather than an engine error.
		assessment.OverallScore = 0
		assessment.Grade = scoring.Grade(0)
		assessment.Compliance = scoring.Compliance(0, e.cfg.Compliance)
		assessment.Error = "no rules executed against the metrics snapshot"
		return assessment
	}

	overall := scoring.Round(scoring.WeightedMean(values, catWeights))
	assessment.OverallScore = overall
	assessment.Grade = scoring.Grade(overall)
	assessment.Compliance = scoring.Compliance(overall, e.cfg.Compliance)
	assessment.Opportunities = e.rankOpportunities(categories, weights)
	return assessment
}

// evaluateCategory runs one category's rules with per-rule isolation: a rule
// body that errors or panics is recorded as a failed high-impact verdict and
// the remaining rules still run.
func (e *Engine) evaluateCategory(category string, snap Snapshot) model.CategoryResult {
	res := model.CategoryResult{Category: category}

	ruleSet := e.byCat[category]
	var weightedPassed, weightTotal float64
	for _, r := range ruleSet {
		verdict := e.evaluateRule(r, snap)
		res.Verdicts = append(res.Verdicts, verdict)
		res.Executed++
		w := r.weight()
		weightTotal += w
		if verdict.Passed {
			res.PassedCount++
			weightedPassed += w
		} else {
			res.FailedCount++
		}
	}

	if res.Executed == 0 || weightTotal == 0 {
		res.Score = 0
		return res
	}
	res.Score = scoring.Round(100 * weightedPassed / weightTotal)
	return res
}

func (e *Engine) evaluateRule(r Rule, snap Snapshot) (verdict model.RuleVerdict) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("rule panicked",
				logging.Field{Key: "rule", Value: r.ID},
				logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			verdict = model.RuleVerdict{
				RuleID:      r.ID,
				Description: r.Description,
				Passed:      false,
				Impact:      model.ImpactHigh,
				Error:       fmt.Sprintf("rule panicked: %v", rec),
			}
		}
	}()

	v, err := r.Evaluate(snap)
	if err != nil {
		e.logger.Warn("rule evaluation failed",
			logging.Field{Key: "rule", Value: r.ID},
			logging.Field{Key: "error", Value: err.Error()})
		return model.RuleVerdict{
			RuleID:      r.ID,
			Description: r.Description,
			Passed:      false,
			Impact:      model.ImpactHigh,
			Error:       err.Error(),
		}
	}
	v.RuleID = r.ID
	if v.Description == "" {
		v.Description = r.Description
	}
	if v.Impact == "" {
		v.Impact = model.ImpactMedium
	}
	return v
}

// rankOpportunities collects all failed verdicts, attaches effort and
// estimated gain, and sorts descending by impact-to-effort ratio. Ties break
// by estimated gain, then rule ID, so ranking stays deterministic.
func (e *Engine) rankOpportunities(categories []model.CategoryResult, weights map[string]float64) []model.Opportunity {
	var opps []model.Opportunity
	for _, cat := range categories {
		catWeight := 1.0
		if w, ok := weights[cat.Category]; ok {
			catWeight = w
		}
		for _, v := range cat.Verdicts {
			if v.Passed {
				continue
			}
			gain, ok := e.cfg.GainByRule[v.RuleID]
			if !ok {
				// Default gain derives from the category's relative weight:
				// fixing a rule in a heavier category moves the overall more.
				gain = 10 * catWeight
			}
			opps = append(opps, model.Opportunity{
				RuleID:             v.RuleID,
				Description:        v.Description,
				Category:           cat.Category,
				Impact:             v.Impact,
				Effort:             e.cfg.effortFor(v.RuleID),
				EstimatedScoreGain: gain,
			})
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		ri := scoring.ImpactWeight(opps[i].Impact) / scoring.EffortWeight(opps[i].Effort)
		rj := scoring.ImpactWeight(opps[j].Impact) / scoring.EffortWeight(opps[j].Effort)
		if ri != rj {
			return ri > rj
		}
		if opps[i].EstimatedScoreGain != opps[j].EstimatedScoreGain {
			return opps[i].EstimatedScoreGain > opps[j].EstimatedScoreGain
		}
		return opps[i].RuleID < opps[j].RuleID
	})
	return opps
}
