package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/pipeline"
)

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventResult JobEventType = "result"
)

// JobEvent is one progress notification on a job's event stream.
type JobEvent struct {
	JobID  string       `json:"job_id"`
	Type   JobEventType `json:"type"`
	Status JobStatus    `json:"status,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Job is one asynchronous audit run. Events carries status transitions for
// websocket subscribers and is closed when the job settles.
type Job struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitzero"`
	Events    chan JobEvent `json:"-"`

	Report *model.AnalysisReport `json:"report,omitempty"`
}

// jobTable tracks live and recently finished jobs. Finished jobs older than
// the retention window are dropped lazily on List/Get.
type jobTable struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	cancels   map[string]context.CancelFunc
	retention time.Duration
}

func newJobTable(retention time.Duration) *jobTable {
	if retention <= 0 {
		retention = time.Hour
	}
	return &jobTable{
		jobs:      make(map[string]*Job),
		cancels:   make(map[string]context.CancelFunc),
		retention: retention,
	}
}

func (t *jobTable) add(job *Job, cancel context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[job.ID] = job
	t.cancels[job.ID] = cancel
}

func (t *jobTable) get(id string) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reapLocked()
	return t.jobs[id]
}

func (t *jobTable) list() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reapLocked()
	out := make([]*Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, j)
	}
	return out
}

func (t *jobTable) cancel(id string) {
	t.mu.Lock()
	cancel := t.cancels[id]
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// settle records the terminal state, emits the final event and closes the
// event stream. The close is what lets websocket loops terminate.
func (t *jobTable) settle(id string, status JobStatus, errMsg string, report *model.AnalysisReport, final JobEvent) {
	t.mu.Lock()
	job := t.jobs[id]
	if job != nil {
		job.Status = status
		job.Error = errMsg
		job.Report = report
		job.EndedAt = time.Now().UTC()
	}
	delete(t.cancels, id)
	t.mu.Unlock()

	if job == nil || job.Events == nil {
		return
	}
	select {
	case job.Events <- final:
	default:
	}
	close(job.Events)
}

func (t *jobTable) reapLocked() {
	cutoff := time.Now().UTC().Add(-t.retention)
	for id, j := range t.jobs {
		if !j.EndedAt.IsZero() && j.EndedAt.Before(cutoff) {
			delete(t.jobs, id)
		}
	}
}

// markRunning flips a pending job to running under the table lock.
func (t *jobTable) markRunning(id string) {
	t.mu.Lock()
	if j := t.jobs[id]; j != nil {
		j.Status = JobRunning
	}
	t.mu.Unlock()
}

// emit delivers an event to the job's stream without blocking; slow or
// absent subscribers just miss it.
func (t *jobTable) emit(id string, ev JobEvent) {
	t.mu.Lock()
	job := t.jobs[id]
	t.mu.Unlock()
	if job == nil || job.Events == nil {
		return
	}
	select {
	case job.Events <- ev:
	default:
	}
}

// StartAuditJob runs Audit in the background and returns immediately with a
// pending Job. Subscribers read Job.Events for status transitions; the
// channel closes when the job settles.
func (a *Auditor) StartAuditJob(ctx context.Context, rawURL string, overrides *pipeline.Config) *Job {
	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		URL:       rawURL,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}

	jobCtx, cancel := context.WithCancel(ctx)
	a.jobs.add(job, cancel)
	a.jobs.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	go func() {
		defer cancel()

		a.jobs.markRunning(jobID)
		a.jobs.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

		report, err := a.Audit(jobCtx, rawURL, overrides)

		switch {
		case jobCtx.Err() != nil:
			a.jobs.settle(jobID, JobCanceled, jobCtx.Err().Error(), nil,
				JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobCanceled, Error: jobCtx.Err().Error()})
		case err != nil:
			a.jobs.settle(jobID, JobFailed, err.Error(), nil,
				JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobFailed, Error: err.Error()})
		default:
			a.jobs.settle(jobID, JobDone, "", report,
				JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone})
		}
	}()

	return job
}

// GetJob returns a job by ID, or nil when unknown or already reaped.
func (a *Auditor) GetJob(jobID string) *Job { return a.jobs.get(jobID) }

// ListJobs returns every live or recently finished job.
func (a *Auditor) ListJobs() []*Job { return a.jobs.list() }

// CancelJob requests cancellation of a running job. Unknown IDs are a no-op.
func (a *Auditor) CancelJob(jobID string) { a.jobs.cancel(jobID) }
