package app

import (
	"context"
	"errors"

	"github.com/pagelens/pagelens/internal/cli"
	"github.com/pagelens/pagelens/internal/logging"
)

// Application is the global runtime state container. It holds config, parsed
// CLI args and the shared services (auditor, logger). Pass Application into
// modules that need access to the global state rather than using
// package-level variables.
type Application struct {
	Config  *Config
	Args    *cli.Args
	Logger  logging.Logger
	Auditor *Auditor

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication constructs an Application from already-built parts so the
// constructor stays easy to test.
func NewApplication(cfg *Config, args *cli.Args, logger logging.Logger, auditor *Auditor) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		Config:  cfg,
		Args:    args,
		Logger:  logger,
		Auditor: auditor,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Context returns the application lifecycle context; it is canceled on
// Shutdown.
func (a *Application) Context() context.Context {
	return a.ctx
}

// Start logs that the application came up. Long-lived work (the HTTP server,
// audit jobs) is started by the caller, not here.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil && a.Args != nil {
		a.Logger.Info("application starting", logging.Field{Key: "target", Value: a.Args.Target})
	}
	return nil
}

// Shutdown attempts a graceful shutdown: release the auditor's resources and
// cancel the lifecycle context.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		a.Logger.Info("application shutdown initiated")
	}

	if a.Auditor != nil {
		a.Auditor.Close()
	}

	a.cancel()
	return nil
}
