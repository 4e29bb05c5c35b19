// Package store persists finished audit reports to SQLite so score history
// survives process restarts and audits of the same target can be compared
// over time. The in-process result cache stays the fast path; the archive is
// the durable one.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pagelens/pagelens/internal/logging"
	"github.com/pagelens/pagelens/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrAuditNotFound = errors.New("audit not found")

// AuditRow is the archive's summary view of one stored report.
type AuditRow struct {
	ID           string               `json:"id"`
	Target       model.AnalysisTarget `json:"target"`
	OverallScore int                  `json:"overall_score"`
	Grade        string               `json:"grade"`
	Compliance   string               `json:"compliance"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Archive is the SQLite-backed audit store.
type Archive struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the archive database at path and applies the
// schema. Use ":memory:" for throwaway archives in tests.
func Open(path string, logger logging.Logger) (*Archive, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{
		db:     db,
		logger: logger.With(logging.Field{Key: "component", Value: "audit-archive"}),
	}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveReport archives a completed report. Reduced configure-abort reports
// are rejected; there is nothing comparable to store.
func (a *Archive) SaveReport(ctx context.Context, report *model.AnalysisReport) error {
	if report == nil || !report.Success || report.Combined == nil {
		return fmt.Errorf("store: refusing to archive an unsuccessful or incomplete report")
	}
	if report.ID == "" {
		return fmt.Errorf("store: report has no ID")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("store: marshal report: %w", err)
	}

	compliance := ""
	if report.Rules != nil {
		compliance = string(report.Rules.Compliance)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() {
		if rb := tx.Rollback(); rb != nil && !errors.Is(rb, sql.ErrTxDone) {
			a.logger.Warn("rollback failed", logging.Field{Key: "error", Value: rb.Error()})
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO audits
		  (id, target, overall_score, grade, compliance, page_text, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Target.String(), report.Combined.Overall, report.Combined.Grade,
		compliance, report.PageText, string(reportJSON), report.StartedAt.Unix()); err != nil {
		return fmt.Errorf("store: insert audit: %w", err)
	}

	for category, score := range report.Combined.PerCategory {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO audit_category_scores (audit_id, category, score)
			VALUES (?, ?, ?)
		`, report.ID, category, score); err != nil {
			return fmt.Errorf("store: insert category score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	a.logger.Debug("report archived",
		logging.Field{Key: "id", Value: report.ID},
		logging.Field{Key: "target", Value: report.Target.String()})
	return nil
}

// GetReport loads the full report for one audit ID.
func (a *Archive) GetReport(ctx context.Context, id string) (*model.AnalysisReport, error) {
	var reportJSON string
	err := a.db.QueryRowContext(ctx,
		`SELECT report_json FROM audits WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query audit %s: %w", id, err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("store: unmarshal audit %s: %w", id, err)
	}
	return &report, nil
}

// Latest returns the most recently started audit of a target.
func (a *Archive) Latest(ctx context.Context, target model.AnalysisTarget) (*model.AnalysisReport, error) {
	var id string
	err := a.db.QueryRowContext(ctx, `
		SELECT id FROM audits WHERE target = ? ORDER BY created_at DESC, id DESC LIMIT 1
	`, target.String()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query latest for %s: %w", target, err)
	}
	return a.GetReport(ctx, id)
}

// History lists a target's audits, newest first, up to limit (0 = all).
func (a *Archive) History(ctx context.Context, target model.AnalysisTarget, limit int) ([]AuditRow, error) {
	query := `
		SELECT id, target, overall_score, grade, compliance, created_at
		FROM audits WHERE target = ? ORDER BY created_at DESC, id DESC`
	args := []any{target.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query history for %s: %w", target, err)
	}
	defer rows.Close()

	var out []AuditRow
	for rows.Next() {
		var row AuditRow
		var createdAt int64
		if err := rows.Scan(&row.ID, &row.Target, &row.OverallScore, &row.Grade, &row.Compliance, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan history row: %w", err)
		}
		row.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

// categoryScores loads the per-category breakdown of one audit.
func (a *Archive) categoryScores(ctx context.Context, id string) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT category, score FROM audit_category_scores WHERE audit_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: query category scores: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var category string
		var score int
		if err := rows.Scan(&category, &score); err != nil {
			return nil, fmt.Errorf("store: scan category score: %w", err)
		}
		out[category] = score
	}
	return out, rows.Err()
}

// pageText loads the stored extracted text of one audit.
func (a *Archive) pageText(ctx context.Context, id string) (string, error) {
	var text string
	err := a.db.QueryRowContext(ctx, `SELECT page_text FROM audits WHERE id = ?`, id).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAuditNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: query page text: %w", err)
	}
	return text, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
