package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pagelens/pagelens/internal/cache"
	"github.com/pagelens/pagelens/internal/detector"
	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/enhance"
	"github.com/pagelens/pagelens/internal/heuristic"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/rules"
)

// Orchestrator sequences a full audit: configure -> detect (concurrent) ->
// heuristics (sequential) -> rules -> enhancement -> combine. Each phase
// settles before the next starts. Unit failures are contained inside their
// bundle entries; only a configure failure aborts the run.
type Orchestrator struct {
	detectors  []detector.Detector
	heuristics []heuristic.Heuristic
	engine     *rules.Engine
	enhancer   enhance.Enhancer
	cache      cache.ResultCache
	logger     logging.Logger
}

// New wires an orchestrator. engine is required; enhancer may be nil (the
// enhancement phase is skipped); resultCache may be nil (every run computes
// fresh).
func New(detectors []detector.Detector, heuristics []heuristic.Heuristic, engine *rules.Engine, enhancer enhance.Enhancer, resultCache cache.ResultCache, logger logging.Logger) (*Orchestrator, error) {
	if engine == nil {
		return nil, fmt.Errorf("pipeline: nil rules engine")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Orchestrator{
		detectors:  detectors,
		heuristics: heuristics,
		engine:     engine,
		enhancer:   enhancer,
		cache:      resultCache,
		logger:     logger.With(logging.Field{Key: "component", Value: "pipeline"}),
	}, nil
}

// Run audits one document snapshot. It always returns a report: a full one
// on success (possibly with contained unit failures) or the reduced
// {success:false, error, fallback} shape when configuration itself fails.
func (o *Orchestrator) Run(ctx context.Context, target model.AnalysisTarget, doc *document.Document, overrides *Config) *model.AnalysisReport {
	started := time.Now().UTC()

	// Cache lookup happens before anything else; a hit short-circuits every
	// phase and returns the stored report unchanged.
	if o.cache != nil && (overrides == nil || !overrides.BypassCache) {
		if cached, ok := o.cache.Get(target); ok {
			o.logger.Debug("cache hit", logging.Field{Key: "target", Value: target.String()})
			return cached
		}
	}

	// Phase 1: configure. The only abort path.
	cfg, err := resolve(overrides)
	if err == nil && target.IsZero() {
		err = fmt.Errorf("config: empty analysis target")
	}
	if err == nil && doc == nil {
		err = fmt.Errorf("config: no document snapshot for %q", target)
	}
	if err != nil {
		o.logger.Error("configure phase failed", logging.Field{Key: "error", Value: err.Error()})
		return &model.AnalysisReport{
			ID:        uuid.New().String(),
			Success:   false,
			Target:    target,
			StartedAt: started,
			Error:     err.Error(),
			Fallback: &model.FallbackState{
				HadDocument: doc != nil,
				Reason:      "audit aborted before the detect phase",
			},
		}
	}

	o.logger.Info("audit started", logging.Field{Key: "target", Value: target.String()})

	// Phase 2: detect (concurrent, all-settle).
	detection := o.runDetectors(ctx, doc, cfg)

	// Phase 3: heuristics (sequential, declared order).
	heuristics := o.runHeuristics(ctx, detection, cfg)

	// Phase 4: rules.
	assessment := o.runRules(detection, heuristics, cfg)

	// Phase 5: enhancement (optional, contained).
	enhancement := o.runEnhancer(ctx, detection, heuristics, assessment, cfg)

	// Phase 6: combine.
	report := combine(target, started, doc, detection, heuristics, assessment, enhancement, o.logger)
	report.ID = uuid.New().String()

	if o.cache != nil {
		o.cache.Put(target, report)
	}
	o.logger.Info("audit finished",
		logging.Field{Key: "target", Value: target.String()},
		logging.Field{Key: "score", Value: report.Combined.Overall},
		logging.Field{Key: "grade", Value: report.Combined.Grade})
	return report
}

// runDetectors fans out every enabled detector against the shared read-only
// snapshot and joins with all-settle semantics: the phase waits for every
// unit to finish or fail, and always produces a bundle.
func (o *Orchestrator) runDetectors(ctx context.Context, doc *document.Document, cfg *Config) model.DetectionBundle {
	bundle := make(model.DetectionBundle)

	var enabled []detector.Detector
	for _, d := range o.detectors {
		if wants(cfg.EnabledDetectors, d.Name()) {
			enabled = append(enabled, d)
		}
	}
	o.logger.Debug("detect phase start", logging.Field{Key: "detectors", Value: len(enabled)})

	results := make([]*model.DetectorResult, len(enabled))
	g := new(errgroup.Group)
	g.SetLimit(cfg.MaxConcurrentDetectors)
	for i, d := range enabled {
		i, d := i, d
		g.Go(func() error {
			// Unit failures are recorded, never returned: an errgroup error
			// would cancel siblings, and the detect phase must settle all.
			results[i] = o.runDetector(ctx, d, doc, cfg)
			return nil
		})
	}
	// Units never return errors, so Wait only joins the fan-out.
	_ = g.Wait()

	for i, d := range enabled {
		bundle[d.Name()] = results[i]
	}
	o.logger.Debug("detect phase settled", logging.Field{Key: "failed", Value: len(bundle.Failed())})
	return bundle
}

func (o *Orchestrator) runDetector(ctx context.Context, d detector.Detector, doc *document.Document, cfg *Config) (out *model.DetectorResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Warn("detector panicked",
				logging.Field{Key: "detector", Value: d.Name()},
				logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			out = &model.DetectorResult{
				Name:       d.Name(),
				Success:    false,
				Error:      fmt.Sprintf("panic: %v", rec),
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	unitCtx, cancel := context.WithTimeout(ctx, cfg.UnitTimeout)
	defer cancel()

	res, err := d.Detect(unitCtx, doc, cfg.Detector)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		o.logger.Warn("detector failed",
			logging.Field{Key: "detector", Value: d.Name()},
			logging.Field{Key: "error", Value: err.Error()})
		return &model.DetectorResult{Name: d.Name(), Success: false, Error: err.Error(), DurationMs: elapsed}
	}
	if res == nil {
		return &model.DetectorResult{Name: d.Name(), Success: false, Error: "detector returned no result", DurationMs: elapsed}
	}
	res.Name = d.Name()
	res.DurationMs = elapsed
	return res
}

// runHeuristics iterates the enabled heuristics in declared order. Each one
// receives the bundle exactly as populated by its predecessors; a failure is
// recorded and later heuristics still run.
func (o *Orchestrator) runHeuristics(ctx context.Context, detection model.DetectionBundle, cfg *Config) model.HeuristicBundle {
	bundle := make(model.HeuristicBundle)
	for _, h := range o.heuristics {
		if !wants(cfg.EnabledHeuristics, h.Name()) {
			continue
		}
		bundle[h.Name()] = o.runHeuristic(ctx, h, detection, bundle, cfg)
	}
	o.logger.Debug("heuristic phase settled", logging.Field{Key: "failed", Value: len(bundle.Failed())})
	return bundle
}

func (o *Orchestrator) runHeuristic(ctx context.Context, h heuristic.Heuristic, detection model.DetectionBundle, prior model.HeuristicBundle, cfg *Config) (out *model.HeuristicResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Warn("heuristic panicked",
				logging.Field{Key: "heuristic", Value: h.Name()},
				logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			out = &model.HeuristicResult{
				Name:       h.Name(),
				Success:    false,
				Error:      fmt.Sprintf("panic: %v", rec),
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	unitCtx, cancel := context.WithTimeout(ctx, cfg.UnitTimeout)
	defer cancel()

	res, err := h.Analyze(unitCtx, detection, prior, cfg.Heuristic)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		o.logger.Warn("heuristic failed",
			logging.Field{Key: "heuristic", Value: h.Name()},
			logging.Field{Key: "error", Value: err.Error()})
		return &model.HeuristicResult{Name: h.Name(), Success: false, Error: err.Error(), DurationMs: elapsed}
	}
	if res == nil {
		return &model.HeuristicResult{Name: h.Name(), Success: false, Error: "heuristic returned no result", DurationMs: elapsed}
	}
	res.Name = h.Name()
	res.DurationMs = elapsed
	return res
}

// runRules flattens phases 2-3 into a metrics snapshot and evaluates the
// engine. The engine itself never fails; a panic here still degrades to a
// zero-score assessment with the error attached.
func (o *Orchestrator) runRules(detection model.DetectionBundle, heuristics model.HeuristicBundle, cfg *Config) (out *model.OverallAssessment) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("rules phase panicked", logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			out = &model.OverallAssessment{
				OverallScore: 0,
				Grade:        "F",
				Compliance:   model.NonCompliant,
				Error:        fmt.Sprintf("rules phase panicked: %v", rec),
			}
		}
	}()

	snap := flatten(detection, heuristics)
	return o.engine.Evaluate(snap, cfg.EnabledCategories, cfg.CategoryWeights)
}

// runEnhancer invokes the optional enhancement step. Its failure is
// non-fatal and leaves the rules result untouched.
func (o *Orchestrator) runEnhancer(ctx context.Context, detection model.DetectionBundle, heuristics model.HeuristicBundle, assessment *model.OverallAssessment, cfg *Config) (out *model.EnhancementResult) {
	if o.enhancer == nil || cfg.SkipEnhancement {
		return nil
	}
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Warn("enhancer panicked", logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			out = &model.EnhancementResult{
				Success:    false,
				Error:      fmt.Sprintf("panic: %v", rec),
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	unitCtx, cancel := context.WithTimeout(ctx, cfg.UnitTimeout)
	defer cancel()

	res, err := o.enhancer.Enhance(unitCtx, detection, heuristics, assessment)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		o.logger.Warn("enhancer failed",
			logging.Field{Key: "enhancer", Value: o.enhancer.Name()},
			logging.Field{Key: "error", Value: err.Error()})
		return &model.EnhancementResult{Success: false, Error: err.Error(), DurationMs: elapsed}
	}
	if res == nil {
		return &model.EnhancementResult{Success: false, Error: "enhancer returned no result", DurationMs: elapsed}
	}
	res.DurationMs = elapsed
	return res
}
