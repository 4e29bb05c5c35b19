package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pagelens/pagelens/internal/model"
)

// TextChunk is one change in the page-text diff between two audits.
type TextChunk struct {
	// Type is "added" or "removed"; unchanged text is omitted.
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Comparison describes how a target changed between two archived audits.
type Comparison struct {
	Target model.AnalysisTarget `json:"target"`
	BaseID string               `json:"base_id"`
	HeadID string               `json:"head_id"`

	ScoreBase  int `json:"score_base"`
	ScoreHead  int `json:"score_head"`
	ScoreDelta int `json:"score_delta"`

	// CategoryDeltas maps category -> head minus base. Categories present in
	// only one audit use 0 for the missing side.
	CategoryDeltas map[string]int `json:"category_deltas,omitempty"`

	// TextChanges is the semantic diff of the extracted page text.
	TextChanges []TextChunk `json:"text_changes,omitempty"`
}

// Compare diffs two archived audits of the same target: overall and
// per-category score deltas plus a text diff of what the page actually said.
func (a *Archive) Compare(ctx context.Context, baseID, headID string) (*Comparison, error) {
	base, err := a.GetReport(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("store: load base audit: %w", err)
	}
	head, err := a.GetReport(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("store: load head audit: %w", err)
	}
	if base.Target != head.Target {
		return nil, fmt.Errorf("store: audits %s and %s have different targets (%s vs %s)",
			baseID, headID, base.Target, head.Target)
	}

	cmp := &Comparison{
		Target: base.Target,
		BaseID: baseID,
		HeadID: headID,
	}
	if base.Combined != nil {
		cmp.ScoreBase = base.Combined.Overall
	}
	if head.Combined != nil {
		cmp.ScoreHead = head.Combined.Overall
	}
	cmp.ScoreDelta = cmp.ScoreHead - cmp.ScoreBase

	baseCats, err := a.categoryScores(ctx, baseID)
	if err != nil {
		return nil, err
	}
	headCats, err := a.categoryScores(ctx, headID)
	if err != nil {
		return nil, err
	}
	cmp.CategoryDeltas = diffCategories(baseCats, headCats)

	baseText, err := a.pageText(ctx, baseID)
	if err != nil {
		return nil, err
	}
	headText, err := a.pageText(ctx, headID)
	if err != nil {
		return nil, err
	}
	cmp.TextChanges = diffText(baseText, headText)

	return cmp, nil
}

func diffCategories(base, head map[string]int) map[string]int {
	deltas := make(map[string]int)
	for cat, hv := range head {
		if delta := hv - base[cat]; delta != 0 {
			deltas[cat] = delta
		}
	}
	for cat, bv := range base {
		if _, ok := head[cat]; !ok && bv != 0 {
			deltas[cat] = -bv
		}
	}
	return deltas
}

// diffText computes a semantic character diff and keeps only the changed
// chunks; a page that merely moved text around produces small output.
func diffText(base, head string) []TextChunk {
	if base == head {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(base, head, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var chunks []TextChunk
	for _, d := range diffs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunks = append(chunks, TextChunk{Type: "added", Content: d.Text})
		case diffmatchpatch.DiffDelete:
			chunks = append(chunks, TextChunk{Type: "removed", Content: d.Text})
		}
	}
	return chunks
}
