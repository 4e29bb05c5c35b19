package heuristic_test

import (
	"context"
	"testing"

	"github.com/pagelens/pagelens/internal/heuristic"
	"github.com/pagelens/pagelens/internal/model"
)

func detectionWith(metrics map[string]map[string]float64) model.DetectionBundle {
	b := model.DetectionBundle{}
	for name, m := range metrics {
		b[name] = &model.DetectorResult{Name: name, Metrics: m, Success: true}
	}
	return b
}

func TestReadability_Judgments(t *testing.T) {
	t.Parallel()

	h := &heuristic.ReadabilityHeuristic{}
	cfg := heuristic.DefaultConfig()

	cases := []struct {
		name       string
		words      float64
		paragraphs float64
		want       string
	}{
		{"sparse copy", 20, 1, "sparse"},
		{"easy copy", 300, 5, "easy"},
		{"dense copy", 1000, 2, "dense"},
		{"balanced copy", 450, 3, "balanced"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			det := detectionWith(map[string]map[string]float64{
				"content": {"word_count": c.words, "paragraph_count": c.paragraphs},
			})
			res, err := h.Analyze(context.Background(), det, model.HeuristicBundle{}, cfg)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if res.Judgment != c.want {
				t.Errorf("Judgment = %q, want %q", res.Judgment, c.want)
			}
		})
	}
}

func TestReadability_ErrorsWithoutContentMetrics(t *testing.T) {
	t.Parallel()

	h := &heuristic.ReadabilityHeuristic{}
	_, err := h.Analyze(context.Background(), model.DetectionBundle{}, model.HeuristicBundle{}, heuristic.DefaultConfig())
	if err == nil {
		t.Fatal("expected error when content detector metrics are absent")
	}
}

func TestAudienceFit_ConsumesPriorReadability(t *testing.T) {
	t.Parallel()

	h := &heuristic.AudienceFitHeuristic{}
	det := detectionWith(map[string]map[string]float64{
		"engagement": {"media_count": 2, "internal_link_count": 4},
	})

	prior := model.HeuristicBundle{
		"readability": &model.HeuristicResult{
			Name: "readability", Judgment: "dense", SubScore: 55, Success: true,
		},
	}
	res, err := h.Analyze(context.Background(), det, prior, heuristic.DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Judgment != "specialist" {
		t.Errorf("Judgment = %q, want specialist", res.Judgment)
	}
	if res.Details["based_on"] != "dense" {
		t.Errorf("based_on = %v, want dense", res.Details["based_on"])
	}
}

// TestAudienceFit_OrderDependenceIsObservable shows that running
// audience-fit without readability's prior result is a contained failure:
// the declared order is part of the contract.
func TestAudienceFit_OrderDependenceIsObservable(t *testing.T) {
	t.Parallel()

	h := &heuristic.AudienceFitHeuristic{}
	_, err := h.Analyze(context.Background(), model.DetectionBundle{}, model.HeuristicBundle{}, heuristic.DefaultConfig())
	if err == nil {
		t.Fatal("expected error when readability has not run yet")
	}
}

func TestStructure_Judgments(t *testing.T) {
	t.Parallel()

	h := &heuristic.StructureHeuristic{}
	cfg := heuristic.DefaultConfig()

	det := detectionWith(map[string]map[string]float64{
		"content": {"heading_count": 0, "word_count": 500},
	})
	res, err := h.Analyze(context.Background(), det, model.HeuristicBundle{}, cfg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Judgment != "flat" {
		t.Errorf("Judgment = %q, want flat", res.Judgment)
	}

	det = detectionWith(map[string]map[string]float64{
		"content": {"heading_count": 1, "word_count": 900},
		"seo":     {"h1_count": 1},
	})
	res, err = h.Analyze(context.Background(), det, model.HeuristicBundle{}, cfg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Judgment != "wall-of-text" {
		t.Errorf("Judgment = %q, want wall-of-text", res.Judgment)
	}
}

func TestAll_DeclaredOrderPutsReadabilityFirst(t *testing.T) {
	t.Parallel()

	all := heuristic.All()
	if len(all) < 3 {
		t.Fatalf("expected 3 stock heuristics, got %d", len(all))
	}
	if all[0].Name() != "readability" {
		t.Errorf("first heuristic = %q, want readability", all[0].Name())
	}
	if all[len(all)-1].Name() != "audience-fit" {
		t.Errorf("last heuristic = %q, want audience-fit", all[len(all)-1].Name())
	}
}
