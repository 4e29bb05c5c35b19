package pipeline

import (
	"fmt"
	"time"

	"github.com/pagelens/pagelens/internal/detector"
	"github.com/pagelens/pagelens/internal/heuristic"
	"github.com/pagelens/pagelens/internal/rules"
)

// Config is the orchestrator's per-run configuration. Zero values fall back
// to the defaults during the configure phase; an inconsistent config is the
// only thing that can abort a run.
type Config struct {
	// EnabledDetectors restricts the detect phase to these detector names.
	// Empty means all registered detectors.
	EnabledDetectors []string

	// EnabledHeuristics restricts the heuristic phase, preserving declared
	// order. Empty means all registered heuristics.
	EnabledHeuristics []string

	// EnabledCategories restricts the rules phase. Empty means every
	// category in the engine's catalog.
	EnabledCategories []string

	// CategoryWeights maps category -> relative weight for the overall
	// score. Nil means rules.DefaultCategoryWeights().
	CategoryWeights map[string]float64

	// MaxConcurrentDetectors bounds the detect phase fan-out. Zero means 4.
	MaxConcurrentDetectors int

	// UnitTimeout bounds each detector/heuristic/enhancer invocation. A unit
	// that exceeds it is recorded as a contained failure, never a run abort.
	// Zero means 10s.
	UnitTimeout time.Duration

	// BypassCache skips the cache lookup (the stored entry is left intact;
	// the fresh report replaces it on completion).
	BypassCache bool

	// SkipEnhancement disables the enhancement phase even when an enhancer
	// is wired.
	SkipEnhancement bool

	Detector  detector.Config
	Heuristic heuristic.Config
}

// DefaultConfig returns the stock pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrentDetectors: 4,
		UnitTimeout:            10 * time.Second,
		CategoryWeights:        rules.DefaultCategoryWeights(),
		Detector:               detector.DefaultConfig(),
		Heuristic:              heuristic.DefaultConfig(),
	}
}

// resolve merges overrides with defaults and validates the result. This is
// the configure phase; its error is the only run-level abort.
func resolve(overrides *Config) (*Config, error) {
	cfg := DefaultConfig()
	if overrides != nil {
		merged := *overrides
		if merged.MaxConcurrentDetectors == 0 {
			merged.MaxConcurrentDetectors = cfg.MaxConcurrentDetectors
		}
		if merged.UnitTimeout == 0 {
			merged.UnitTimeout = cfg.UnitTimeout
		}
		if merged.CategoryWeights == nil {
			merged.CategoryWeights = cfg.CategoryWeights
		}
		if merged.Detector == (detector.Config{}) {
			merged.Detector = cfg.Detector
		}
		if merged.Heuristic == (heuristic.Config{}) {
			merged.Heuristic = cfg.Heuristic
		}
		cfg = &merged
	}

	if cfg.MaxConcurrentDetectors < 0 {
		return nil, fmt.Errorf("config: MaxConcurrentDetectors must be >= 0, got %d", cfg.MaxConcurrentDetectors)
	}
	if cfg.UnitTimeout < 0 {
		return nil, fmt.Errorf("config: UnitTimeout must be >= 0, got %v", cfg.UnitTimeout)
	}
	for cat, w := range cfg.CategoryWeights {
		if w < 0 {
			return nil, fmt.Errorf("config: negative weight %v for category %q", w, cat)
		}
	}
	return cfg, nil
}

// wants reports whether the name is enabled by the (possibly empty) allow
// list.
func wants(enabled []string, name string) bool {
	if len(enabled) == 0 {
		return true
	}
	for _, n := range enabled {
		if n == name {
			return true
		}
	}
	return false
}
