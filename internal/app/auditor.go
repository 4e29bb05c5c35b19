package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagelens/pagelens/internal/cache"
	"github.com/pagelens/pagelens/internal/detector"
	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/enhance"
	"github.com/pagelens/pagelens/internal/heuristic"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/rules"
	"github.com/pagelens/pagelens/internal/store"
	"github.com/pagelens/pagelens/internal/urlutil"
	"github.com/pagelens/pagelens/internal/webclient"
)

// Auditor ties the fetch client, the audit pipeline and the archive together
// behind one façade. The HTTP server and the CLI both drive it; neither
// touches the pipeline directly.
type Auditor struct {
	cfg     *Config
	client  webclient.WebClient
	pipe    *pipeline.Orchestrator
	archive *store.Archive
	logger  logging.Logger

	jobs *jobTable
}

// NewAuditor wires the full stack from cfg. The archive is optional: an
// empty ArchiveFile keeps everything in the process-local cache.
func NewAuditor(cfg *Config, logger logging.Logger) (*Auditor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("Auditor")
	}

	client, err := webclient.New(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating web client: %w", err)
	}

	engine, err := rules.NewEngine(rules.DefaultConfig(), rules.DefaultCatalog(), logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("creating rules engine: %w", err)
	}

	var policy cache.Policy = cache.KeepAll{}
	if cfg.MaxCachedReports > 0 {
		policy = cache.LRU{MaxEntries: cfg.MaxCachedReports}
	}

	pipe, err := pipeline.New(detector.All(), heuristic.All(), engine,
		enhance.NewCalibrationEnhancer(), cache.NewMemoryCache(policy), logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}

	var archive *store.Archive
	if cfg.ArchiveFile != "" {
		root, err := expandPath(cfg.StorageRoot)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("expanding storage root path: %w", err)
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			logger.Warn("creating storage root directory",
				logging.Field{Key: "path", Value: root},
				logging.Field{Key: "error", Value: err.Error()})
		}
		archive, err = store.Open(filepath.Join(root, cfg.ArchiveFile), logger)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("opening audit archive: %w", err)
		}
	}

	return &Auditor{
		cfg:     cfg,
		client:  client,
		pipe:    pipe,
		archive: archive,
		logger:  logger,
		jobs:    newJobTable(cfg.JobRetentionTime),
	}, nil
}

// NormalizeTarget canonicalizes a raw URL into the audit key using the
// configured policy.
func (a *Auditor) NormalizeTarget(raw string) (model.AnalysisTarget, error) {
	return urlutil.NormalizeTarget(raw, a.cfg.URLCfg)
}

// Audit fetches the target and runs the full pipeline synchronously. The
// returned report is never nil; a configure failure yields the reduced
// {success:false} shape. Fetch failures are returned as errors since there
// is nothing to analyze.
func (a *Auditor) Audit(ctx context.Context, rawURL string, overrides *pipeline.Config) (*model.AnalysisReport, error) {
	target, err := a.NormalizeTarget(rawURL)
	if err != nil {
		return nil, fmt.Errorf("normalizing %q: %w", rawURL, err)
	}

	resp, err := a.client.Get(ctx, target.String())
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}

	doc, err := document.New(target.String(), resp.StatusCode, resp.Headers, resp.Body, resp.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", target, err)
	}

	report := a.pipe.Run(ctx, target, doc, overrides)

	if a.archive != nil && report.Success {
		if err := a.archive.SaveReport(ctx, report); err != nil {
			a.logger.Warn("archiving report",
				logging.Field{Key: "target", Value: target.String()},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return report, nil
}

// LatestReport returns the most recent archived audit of a raw URL.
func (a *Auditor) LatestReport(ctx context.Context, rawURL string) (*model.AnalysisReport, error) {
	if a.archive == nil {
		return nil, store.ErrAuditNotFound
	}
	target, err := a.NormalizeTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return a.archive.Latest(ctx, target)
}

// HistoryRows lists the archived audits of a raw URL, newest first.
func (a *Auditor) HistoryRows(ctx context.Context, rawURL string, limit int) ([]store.AuditRow, error) {
	if a.archive == nil {
		return nil, nil
	}
	target, err := a.NormalizeTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return a.archive.History(ctx, target, limit)
}

// CompareAudits diffs two archived audits by ID.
func (a *Auditor) CompareAudits(ctx context.Context, baseID, headID string) (*store.Comparison, error) {
	if a.archive == nil {
		return nil, store.ErrAuditNotFound
	}
	return a.archive.Compare(ctx, baseID, headID)
}

// Close releases the fetch client and archive handles.
func (a *Auditor) Close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.archive != nil {
		a.archive.Close()
	}
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
