package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/pagelens/pagelens/internal/app"
	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/store"
)

// Server is the HTTP + WebSocket API surface for the audit service.
type Server struct {
	cfg      Config
	auditor  *app.Auditor
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a Server with its own Auditor.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	auditor, err := app.NewAuditor(cfg.AppConfig, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		auditor: auditor,
		router:  r,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Auditor returns the underlying auditor for advanced use (tests, etc.).
func (s *Server) Auditor() *app.Auditor {
	return s.auditor
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/audits", s.optionsHandler("POST"))
	r.Options("/audits/latest", s.optionsHandler("GET"))
	r.Options("/audits/history", s.optionsHandler("GET"))
	r.Options("/audits/compare", s.optionsHandler("GET"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/jobs/{jobID}", s.optionsHandler("GET"))

	// Audits
	r.Post("/audits", s.handleStartAudit)
	r.Get("/audits/latest", s.handleLatestAudit)
	r.Get("/audits/history", s.handleAuditHistory)
	r.Get("/audits/compare", s.handleCompareAudits)

	// Jobs over REST
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// WebSocket for job progress
	r.Get("/ws/jobs/{jobID}", s.handleJobWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the auditor and underlying resources.
func (s *Server) Close() {
	if s.auditor != nil {
		s.auditor.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// handleStartAudit starts an asynchronous audit job.
//
// @Summary Start an audit job
// @Accept json
// @Produce json
// @Param request body StartAuditRequest true "Audit request"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Router /audits [post]
func (s *Server) handleStartAudit(w http.ResponseWriter, r *http.Request) {
	var body StartAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	overrides := pipeline.DefaultConfig()
	overrides.BypassCache = body.Fresh
	overrides.SkipEnhancement = body.SkipEnhancement
	overrides.EnabledDetectors = body.Detectors
	overrides.EnabledHeuristics = body.Heuristics
	overrides.EnabledCategories = body.Categories

	// The job outlives this request; it is canceled via DELETE /jobs/{id},
	// not by the client dropping the connection.
	job := s.auditor.StartAuditJob(context.Background(), body.URL, overrides)
	s.logger.Info("started audit job",
		logging.Field{Key: "job_id", Value: job.ID},
		logging.Field{Key: "url", Value: body.URL})
	writeJSON(w, http.StatusAccepted, job)
}

// handleLatestAudit returns the most recent archived audit of a target.
//
// @Summary Latest archived audit for a target
// @Produce json
// @Param target query string true "URL to look up"
// @Success 200 {object} model.AnalysisReport
// @Failure 404 {object} ErrorResponse
// @Router /audits/latest [get]
func (s *Server) handleLatestAudit(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing target query parameter")
		return
	}

	report, err := s.auditor.LatestReport(r.Context(), target)
	if errors.Is(err, store.ErrAuditNotFound) {
		writeError(w, http.StatusNotFound, "no archived audit for target")
		return
	}
	if err != nil {
		s.logger.Warn("loading latest audit", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAuditHistory lists a target's archived audits, newest first.
//
// @Summary Audit history for a target
// @Produce json
// @Param target query string true "URL to look up"
// @Param limit query int false "Maximum rows (0=all)"
// @Success 200 {array} store.AuditRow
// @Router /audits/history [get]
func (s *Server) handleAuditHistory(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing target query parameter")
		return
	}

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	rows, err := s.auditor.HistoryRows(r.Context(), target, limit)
	if err != nil {
		s.logger.Warn("listing audit history", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleCompareAudits diffs two archived audits of the same target.
//
// @Summary Compare two archived audits
// @Produce json
// @Param base query string true "Base audit ID"
// @Param head query string true "Head audit ID"
// @Success 200 {object} store.Comparison
// @Failure 404 {object} ErrorResponse
// @Router /audits/compare [get]
func (s *Server) handleCompareAudits(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	headID := r.URL.Query().Get("head")
	if baseID == "" || headID == "" {
		writeError(w, http.StatusBadRequest, "missing base or head query parameter")
		return
	}

	cmp, err := s.auditor.CompareAudits(r.Context(), baseID, headID)
	if errors.Is(err, store.ErrAuditNotFound) {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}
	if err != nil {
		s.logger.Warn("comparing audits", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// Jobs (REST)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.auditor.ListJobs()
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.auditor.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.auditor.CancelJob(jobID)
	s.logger.Info("canceled job", logging.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

// WebSocket

// handleJobWS streams a job's status events until the job settles or the
// client disconnects.
func (s *Server) handleJobWS(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.auditor.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	// Send the job snapshot first so the client has a baseline.
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; the job itself keeps running.
			return
		}
	}

	// Channel closed: job settled. Send the final state.
	if final := s.auditor.GetJob(jobID); final != nil {
		_ = conn.WriteJSON(final)
	}
}
