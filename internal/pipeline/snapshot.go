package pipeline

import (
	"fmt"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/rules"
)

// flatten assembles the rules-phase metrics snapshot from the detection and
// heuristic bundles. Keys follow "<unit>.<metric>"; each successful unit also
// contributes "<unit>.sub_score". Failed units contribute nothing, so rules
// over their metrics fail with "metric absent" rather than a stale zero.
func flatten(detection model.DetectionBundle, heuristics model.HeuristicBundle) rules.Snapshot {
	snap := make(rules.Snapshot)
	for name, res := range detection {
		if res == nil || !res.Success {
			continue
		}
		for metric, value := range res.Metrics {
			snap[fmt.Sprintf("%s.%s", name, metric)] = value
		}
		snap[fmt.Sprintf("%s.sub_score", name)] = res.SubScore
	}
	for name, res := range heuristics {
		if res == nil || !res.Success {
			continue
		}
		snap[fmt.Sprintf("%s.sub_score", name)] = res.SubScore
	}
	return snap
}
