package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/testutil"
	"github.com/pagelens/pagelens/internal/webclient"
)

const fixturePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>A perfectly reasonable page title</title>
  <meta name="description" content="A page used to exercise the audit pipeline end to end in tests.">
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <h1>Welcome</h1>
  <p>Some body text for the content detector to count. It repeats a little
  so the word count is not trivially zero. Some body text for the content
  detector to count.</p>
  <img src="/a.png" alt="described image">
  <a href="/about">About</a>
</body>
</html>`

func newTestAuditor(t *testing.T) *Auditor {
	t.Helper()
	webclient.RegisterDefaultBackends()

	cfg := DefaultConfig()
	cfg.StorageRoot = t.TempDir()
	cfg.JobRetentionTime = time.Minute

	auditor, err := NewAuditor(cfg, &testutil.DummyLogger{})
	require.NoError(t, err)
	t.Cleanup(auditor.Close)
	return auditor
}

func TestAuditor_AuditRunsFullPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	auditor := newTestAuditor(t)

	report, err := auditor.Audit(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.NotNil(t, report.Combined)
	assert.NotEmpty(t, report.Combined.Grade)

	// A successful audit lands in the archive.
	latest, err := auditor.LatestReport(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, report.ID, latest.ID)
}

func TestAuditor_AuditFetchFailure(t *testing.T) {
	auditor := newTestAuditor(t)

	// Nothing listens on this port.
	_, err := auditor.Audit(context.Background(), "http://127.0.0.1:1/", nil)
	assert.Error(t, err)
}

func TestAuditor_StartAuditJobSettles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	auditor := newTestAuditor(t)

	job := auditor.StartAuditJob(context.Background(), srv.URL, nil)
	require.NotNil(t, job)
	assert.Equal(t, JobPending, job.Status)

	var last JobEvent
	for ev := range job.Events {
		last = ev
	}
	assert.Equal(t, JobEventResult, last.Type)

	got := auditor.GetJob(job.ID)
	require.NotNil(t, got)
	assert.Equal(t, JobDone, got.Status)
	require.NotNil(t, got.Report)
	assert.True(t, got.Report.Success)
}

func TestAuditor_JobFailureIsRecorded(t *testing.T) {
	auditor := newTestAuditor(t)

	job := auditor.StartAuditJob(context.Background(), "http://127.0.0.1:1/", nil)
	for range job.Events {
	}

	got := auditor.GetJob(job.ID)
	require.NotNil(t, got)
	assert.Equal(t, JobFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestJobTable_ReapsFinishedJobs(t *testing.T) {
	t.Parallel()

	table := newJobTable(time.Millisecond)
	job := &Job{ID: "j1", Status: JobPending, StartedAt: time.Now().UTC()}
	table.add(job, func() {})
	table.settle("j1", JobDone, "", nil, JobEvent{})

	time.Sleep(10 * time.Millisecond)
	assert.Nil(t, table.get("j1"))
	assert.Empty(t, table.list())
}

func TestJobTable_CancelUnknownJobIsNoop(t *testing.T) {
	t.Parallel()

	table := newJobTable(time.Minute)
	table.cancel("does-not-exist")
}
