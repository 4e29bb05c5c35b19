package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Args are the parsed command-line arguments. The binary runs in one of two
// modes: a one-shot audit of a single URL, or the long-running API server.
type Args struct {
	// Serve starts the HTTP API server instead of a one-shot audit.
	Serve bool

	// Target is the URL to audit in one-shot mode.
	Target string

	// ListenAddr is the API server listen address in serve mode.
	ListenAddr string

	// Backend selects the fetch backend (nethttp or chromedp).
	Backend string

	// StorageRoot overrides where the audit archive is kept; empty uses the
	// config default.
	StorageRoot string

	// BypassCache forces a fresh audit even when a cached report exists.
	BypassCache bool

	// JSONOutput prints the full report as JSON instead of the summary view.
	JSONOutput bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args into Args. It is deterministic and does
// not read os.Args, so tests can pass arbitrary slices.
func ParseArgs(args []string) (*Args, error) {
	fs := flag.NewFlagSet("pagelens", flag.ContinueOnError)
	var (
		serve       = fs.Bool("serve", false, "Run the HTTP API server instead of a one-shot audit")
		target      = fs.String("target", "", "URL to audit (required unless -serve)")
		listenAddr  = fs.String("listen", ":8080", "API server listen address (serve mode)")
		backend     = fs.String("backend", "nethttp", "Fetch backend: nethttp|chromedp")
		storageRoot = fs.String("storage", "", "Audit archive directory (empty=default)")
		bypassCache = fs.Bool("fresh", false, "Bypass the result cache and re-audit")
		jsonOutput  = fs.Bool("json", false, "Print the full report as JSON")
	)

	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !*serve && strings.TrimSpace(*target) == "" {
		return nil, fmt.Errorf("missing required -target argument (or use -serve)")
	}

	return &Args{
		Serve:       *serve,
		Target:      *target,
		ListenAddr:  *listenAddr,
		Backend:     *backend,
		StorageRoot: *storageRoot,
		BypassCache: *bypassCache,
		JSONOutput:  *jsonOutput,
		RawArgs:     args,
	}, nil
}
