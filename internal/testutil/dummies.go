// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pagelens/pagelens/internal/detector"
	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/enhance"
	"github.com/pagelens/pagelens/internal/heuristic"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Detector ──────────────────────────────────────────────────────────

// DummyDetector implements detector.Detector with a canned result or error.
// Calls counts invocations so cache tests can prove nothing re-ran.
type DummyDetector struct {
	DetectorName string
	Metrics      map[string]float64
	SubScore     float64
	Err          error
	PanicWith    any
	Calls        atomic.Int64
}

func (d *DummyDetector) Name() string { return d.DetectorName }

func (d *DummyDetector) Detect(ctx context.Context, doc *document.Document, cfg detector.Config) (*model.DetectorResult, error) {
	d.Calls.Add(1)
	if d.PanicWith != nil {
		panic(d.PanicWith)
	}
	if d.Err != nil {
		return nil, d.Err
	}
	return &model.DetectorResult{
		Name:     d.DetectorName,
		Metrics:  d.Metrics,
		SubScore: d.SubScore,
		Success:  true,
	}, nil
}

// ─── Heuristic ─────────────────────────────────────────────────────────

// DummyHeuristic implements heuristic.Heuristic. SeenPrior records the names
// present in the prior bundle at the moment this heuristic ran, so tests can
// observe order-dependence.
type DummyHeuristic struct {
	HeuristicName string
	SubScore      float64
	Err           error
	SeenPrior     []string
}

func (h *DummyHeuristic) Name() string { return h.HeuristicName }

func (h *DummyHeuristic) Analyze(ctx context.Context, detection model.DetectionBundle, prior model.HeuristicBundle, cfg heuristic.Config) (*model.HeuristicResult, error) {
	h.SeenPrior = h.SeenPrior[:0]
	for name := range prior {
		h.SeenPrior = append(h.SeenPrior, name)
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &model.HeuristicResult{
		Name:     h.HeuristicName,
		Judgment: "dummy",
		SubScore: h.SubScore,
		Success:  true,
	}, nil
}

// ─── Enhancer ──────────────────────────────────────────────────────────

// DummyEnhancer implements enhance.Enhancer with a fixed override or error.
type DummyEnhancer struct {
	Override *float64
	Err      error
}

var _ enhance.Enhancer = (*DummyEnhancer)(nil)

func (e *DummyEnhancer) Name() string { return "dummy-enhancer" }

func (e *DummyEnhancer) Enhance(ctx context.Context, detection model.DetectionBundle, heuristics model.HeuristicBundle, assessment *model.OverallAssessment) (*model.EnhancementResult, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return &model.EnhancementResult{
		OverrideScore: e.Override,
		Success:       true,
	}, nil
}
