package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagelens/pagelens/internal/app"
	"github.com/pagelens/pagelens/internal/cli"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/server"
	"github.com/pagelens/pagelens/internal/webclient"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	parsed, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagelens: %v\n", err)
		return 2
	}

	webclient.RegisterDefaultBackends()
	logger := logging.NewStdoutLogger("pagelens")

	cfg := app.DefaultConfig()
	if parsed.StorageRoot != "" {
		cfg.StorageRoot = parsed.StorageRoot
	}
	if parsed.Backend != "" {
		cfg.WebClientCfg.Backend = parsed.Backend
	}

	if parsed.Serve {
		return serve(parsed, cfg, logger)
	}
	return audit(parsed, cfg, logger)
}

// audit performs a one-shot audit and prints the result.
func audit(args *cli.Args, cfg *app.Config, logger logging.Logger) int {
	auditor, err := app.NewAuditor(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagelens: %v\n", err)
		return 1
	}
	defer auditor.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	overrides := pipeline.DefaultConfig()
	overrides.BypassCache = args.BypassCache

	report, err := auditor.Audit(ctx, args.Target, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagelens: %v\n", err)
		return 1
	}

	if args.JSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printSummary(report)
	}

	if !report.Success {
		return 1
	}
	return 0
}

func printSummary(report *model.AnalysisReport) {
	if !report.Success {
		fmt.Printf("audit of %s failed: %s\n", report.Target, report.Error)
		return
	}

	fmt.Printf("%s\n", report.Target)
	fmt.Printf("  score: %d (%s)\n", report.Combined.Overall, report.Combined.Grade)
	if report.Rules != nil {
		fmt.Printf("  compliance: %s\n", report.Rules.Compliance)
	}
	for cat, score := range report.Combined.PerCategory {
		fmt.Printf("  %-12s %d\n", cat, score)
	}
	if len(report.Insights) > 0 {
		fmt.Println("insights:")
		for _, in := range report.Insights {
			fmt.Printf("  - %s\n", in)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	if len(report.Issues) > 0 {
		fmt.Println("issues:")
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
}

// serve runs the HTTP API until SIGINT/SIGTERM.
func serve(args *cli.Args, cfg *app.Config, logger logging.Logger) int {
	s, err := server.NewServer(server.Config{
		ListenAddr: args.ListenAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagelens: %v\n", err)
		return 1
	}
	defer s.Close()

	httpSrv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", logging.Field{Key: "addr", Value: args.ListenAddr})
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", logging.Field{Key: "signal", Value: sig.String()})
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "pagelens: %v\n", err)
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
	return 0
}
