package job

import (
	"errors"
	"sync"
	"time"

	"llm-market-analyst/internal/types"
)

// ErrAlreadyRunning is returned by TryStart while a batch is in flight.
var ErrAlreadyRunning = errors.New("a batch is already running")

// State is the lifecycle phase of the batch job.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// Summary condenses a completed run for status polling; the full result
// lives in the snapshot store.
type Summary struct {
	Decisions int                `json:"decisions"`
	Submitted int                `json:"submitted"`
	Counts    types.ActionCounts `json:"counts"`
	ElapsedMs int64              `json:"elapsed_ms"`
}

// Status is a point-in-time copy of the job's observable state, safe to
// serialize without holding the job lock.
type Status struct {
	State       State     `json:"state"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastResult  *Summary  `json:"last_result,omitempty"`
	RunsStarted int       `json:"runs_started"`
}

// Job enforces single-flight execution of the batch: at most one run at a
// time, with Completed/Failed retained until the next successful TryStart.
// The last completed result is kept for polling until the next run
// overwrites it.
type Job struct {
	mu          sync.Mutex
	state       State
	startedAt   time.Time
	finishedAt  time.Time
	lastError   string
	lastResult  *Summary
	runsStarted int
}

func New() *Job {
	return &Job{state: StateIdle}
}

// TryStart transitions to Running, or returns ErrAlreadyRunning if a run is
// in flight. A new run clears the previous run's terminal state but keeps
// the last result until Complete overwrites it.
func (j *Job) TryStart() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state == StateRunning {
		return ErrAlreadyRunning
	}

	j.state = StateRunning
	j.startedAt = time.Now()
	j.finishedAt = time.Time{}
	j.lastError = ""
	j.runsStarted++
	return nil
}

// Complete marks the running batch as finished and retains a summary of its
// result for polling. A batch that produced zero decisions still completes;
// failure is reserved for runs that could not execute at all.
func (j *Job) Complete(result types.BatchResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunning {
		return
	}
	j.state = StateCompleted
	j.finishedAt = time.Now()
	j.lastResult = &Summary{
		Decisions: len(result.Decisions),
		Submitted: result.Submitted,
		Counts:    result.Counts,
		ElapsedMs: result.ElapsedMs,
	}
}

// Fail marks the running batch as failed with the given cause.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunning {
		return
	}
	j.state = StateFailed
	j.finishedAt = time.Now()
	if err != nil {
		j.lastError = err.Error()
	}
}

// Status returns a copy of the current state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	var last *Summary
	if j.lastResult != nil {
		s := *j.lastResult
		last = &s
	}
	return Status{
		State:       j.state,
		StartedAt:   j.startedAt,
		FinishedAt:  j.finishedAt,
		LastError:   j.lastError,
		LastResult:  last,
		RunsStarted: j.runsStarted,
	}
}
