package app

import (
	"time"

	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/urlutil"
	"github.com/pagelens/pagelens/internal/webclient"
)

// Config aggregates the per-package configurations into one runtime config.
type Config struct {
	// StorageRoot is the base path where the audit archive is kept.
	StorageRoot string

	// ArchiveFile is the SQLite file name inside StorageRoot. Empty disables
	// the durable archive (in-memory cache only).
	ArchiveFile string

	// MaxCachedReports bounds the in-process result cache with LRU eviction.
	// Zero keeps every report for the process lifetime.
	MaxCachedReports int

	// JobRetentionTime is how long finished jobs stay listable before the
	// reaper drops them. Zero means 1h.
	JobRetentionTime time.Duration

	// PipelineCfg is the default per-run config; API callers can override
	// parts of it per request.
	PipelineCfg *pipeline.Config

	// WebClientCfg selects the fetch backend (plain HTTP or rendered).
	WebClientCfg webclient.Config

	// URLCfg controls how raw URLs normalize into cache/archive keys.
	URLCfg urlutil.Options
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StorageRoot:      "~/.config/pagelens",
		ArchiveFile:      "audits.db",
		MaxCachedReports: 0,
		JobRetentionTime: time.Hour,
		PipelineCfg:      pipeline.DefaultConfig(),
		WebClientCfg:     webclient.DefaultConfig(),
		URLCfg:           urlutil.DefaultOptions(),
	}
}
