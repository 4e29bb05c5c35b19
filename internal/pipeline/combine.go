package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/scoring"
)

// combine deterministically folds all phase outputs into the final report.
// Insights and recommendations derive purely from the combined scores and
// verdicts; there is no hidden state. Enhancement overrides are applied here
// and logged, keeping the rules-derived score in the report for audit.
func combine(
	target model.AnalysisTarget,
	started time.Time,
	doc *document.Document,
	detection model.DetectionBundle,
	heuristics model.HeuristicBundle,
	assessment *model.OverallAssessment,
	enhancement *model.EnhancementResult,
	logger logging.Logger,
) *model.AnalysisReport {
	perCategory := make(map[string]int)
	for _, cat := range assessment.Categories {
		perCategory[cat.Category] = cat.Score
	}

	combined := &model.CombinedScore{
		PerCategory: perCategory,
		Overall:     assessment.OverallScore,
		Grade:       assessment.Grade,
		RulesScore:  assessment.OverallScore,
	}
	if enhancement != nil && enhancement.Success && enhancement.OverrideScore != nil {
		combined.Overall = scoring.Round(*enhancement.OverrideScore)
		combined.Grade = scoring.Grade(combined.Overall)
		if enhancement.OverrideGrade != "" {
			combined.Grade = enhancement.OverrideGrade
		}
		combined.Overridden = true
		logger.Info("enhancement override applied",
			logging.Field{Key: "rules_score", Value: assessment.OverallScore},
			logging.Field{Key: "override_score", Value: combined.Overall})
	}

	report := &model.AnalysisReport{
		Success:         true,
		Target:          target,
		StartedAt:       started,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
		Detection:       detection,
		Heuristics:      heuristics,
		Rules:           assessment,
		Enhance:         enhancement,
		Combined:        combined,
		Summary: model.RunSummary{
			FailedDetectors:  len(detection.Failed()),
			FailedHeuristics: len(heuristics.Failed()),
		},
	}
	if doc != nil {
		report.PageText = doc.BodyText()
	}

	report.Insights = deriveInsights(combined, heuristics)
	report.Recommendations = deriveRecommendations(assessment)
	report.Issues = deriveIssues(detection, heuristics, assessment)
	return report
}

// deriveInsights turns combined scores into threshold-triggered qualitative
// messages.
func deriveInsights(combined *model.CombinedScore, heuristics model.HeuristicBundle) []string {
	var insights []string

	switch {
	case combined.Overall >= 90:
		insights = append(insights, fmt.Sprintf("page scores %d (%s): comfortably above the compliance bar", combined.Overall, combined.Grade))
	case combined.Overall >= 70:
		insights = append(insights, fmt.Sprintf("page scores %d (%s): passable, with clear room to improve", combined.Overall, combined.Grade))
	default:
		insights = append(insights, fmt.Sprintf("page scores %d (%s): below the partial-compliance bar", combined.Overall, combined.Grade))
	}

	// Call out the weakest and strongest categories when scores spread.
	type catScore struct {
		name  string
		score int
	}
	var cats []catScore
	for name, score := range combined.PerCategory {
		cats = append(cats, catScore{name, score})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].score != cats[j].score {
			return cats[i].score < cats[j].score
		}
		return cats[i].name < cats[j].name
	})
	if len(cats) >= 2 && cats[len(cats)-1].score-cats[0].score >= 30 {
		insights = append(insights,
			fmt.Sprintf("%s is the weakest area (%d) while %s is the strongest (%d)",
				cats[0].name, cats[0].score, cats[len(cats)-1].name, cats[len(cats)-1].score))
	}

	// Surface heuristic judgments worth acting on.
	names := make([]string, 0, len(heuristics))
	for name := range heuristics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h := heuristics[name]
		if h != nil && h.Success && h.Judgment != "" && h.SubScore < 60 {
			insights = append(insights, fmt.Sprintf("%s judged the page %q", name, h.Judgment))
		}
	}
	return insights
}

// deriveRecommendations turns the ranked opportunities into an action list,
// preserving the engine's impact-to-effort order.
func deriveRecommendations(assessment *model.OverallAssessment) []string {
	var recs []string
	for _, opp := range assessment.Opportunities {
		desc := opp.Description
		if desc == "" {
			desc = opp.RuleID
		}
		recs = append(recs, fmt.Sprintf("%s (impact %s, effort %s, ~%.0f points)",
			desc, opp.Impact, opp.Effort, opp.EstimatedScoreGain))
	}
	return recs
}

// deriveIssues names every failed unit so partial results stay auditable.
func deriveIssues(detection model.DetectionBundle, heuristics model.HeuristicBundle, assessment *model.OverallAssessment) []string {
	var issues []string

	failed := detection.Failed()
	sort.Strings(failed)
	for _, name := range failed {
		msg := "failed"
		if r := detection[name]; r != nil && r.Error != "" {
			msg = r.Error
		}
		issues = append(issues, fmt.Sprintf("detector %s: %s", name, msg))
	}

	failed = heuristics.Failed()
	sort.Strings(failed)
	for _, name := range failed {
		msg := "failed"
		if r := heuristics[name]; r != nil && r.Error != "" {
			msg = r.Error
		}
		issues = append(issues, fmt.Sprintf("heuristic %s: %s", name, msg))
	}

	if assessment.Error != "" {
		issues = append(issues, fmt.Sprintf("rules: %s", assessment.Error))
	}
	return issues
}
