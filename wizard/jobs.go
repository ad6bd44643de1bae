package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job statuses move strictly forward: pending -> running -> done|failed.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Job is one execution of one step.
type Job struct {
	ID         string    `json:"id"`
	StepID     string    `json:"step_id"`
	Status     string    `json:"status"`
	Log        []string  `json:"log"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	done chan struct{}
}

// Done is closed when the job finishes either way.
func (j *Job) Done() <-chan struct{} { return j.done }

// Manager runs jobs and keeps their records. A step runs at most once at a
// time: the steps touch the same project files, so overlapping runs of the
// same stage would race on disk.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	active map[string]string // step id -> running job id
}

func NewManager() *Manager {
	return &Manager{
		jobs:   make(map[string]*Job),
		active: make(map[string]string),
	}
}

// ErrBusy reports a rejected start because the step is already running.
type ErrBusy struct {
	StepID string
	JobID  string
}

func (e *ErrBusy) Error() string {
	return fmt.Sprintf("step %s is already running as job %s", e.StepID, e.JobID)
}

// Start launches a step in the background and returns its job record.
func (m *Manager) Start(ctx context.Context, step Step, fields map[string]string) (*Job, error) {
	m.mu.Lock()
	if running, busy := m.active[step.ID]; busy {
		m.mu.Unlock()
		return nil, &ErrBusy{StepID: step.ID, JobID: running}
	}

	job := &Job{
		ID:        uuid.NewString(),
		StepID:    step.ID,
		Status:    StatusRunning,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	m.jobs[job.ID] = job
	m.active[step.ID] = job.ID
	m.mu.Unlock()

	go m.run(ctx, job, step, fields)
	return job, nil
}

func (m *Manager) run(ctx context.Context, job *Job, step Step, fields map[string]string) {
	logLine := func(line string) {
		m.mu.Lock()
		job.Log = append(job.Log, line)
		m.mu.Unlock()
	}

	err := step.Run(ctx, fields, logLine)

	m.mu.Lock()
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = StatusDone
	}
	delete(m.active, step.ID)
	m.mu.Unlock()
	close(job.done)
}

// Get returns a copy of a job record so callers never race the runner.
func (m *Manager) Get(id string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	snapshot := *job
	snapshot.Log = append([]string(nil), job.Log...)
	return snapshot, true
}
