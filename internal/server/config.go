package server

import (
	"github.com/pagelens/pagelens/internal/app"
	"github.com/pagelens/pagelens/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server (the CLI uses
	// the auditor in-process and does not require the network).
	ListenAddr string

	// AppConfig configures the auditor the server constructs. Nil means
	// app.DefaultConfig().
	AppConfig *app.Config

	// Logger is shared with the auditor. Nil means a stdout logger.
	Logger logging.Logger
}
