// Package dag runs a linear chain of tasks the way a workflow scheduler
// does: every task gets a fixed number of retries with a fixed delay, and
// a failure hook is called once when a task runs out of attempts.
//
// Tasks are plain functions. They never retry by themselves, retries
// belong here.
package dag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Task is one named step of a DAG.
type Task struct {
	ID  string
	Run func(ctx context.Context) error
}

// Failure describes a task that failed all its attempts. It is passed to
// the failure hook.
type Failure struct {
	DagID    string
	TaskID   string
	RunID    string
	Owner    string
	Attempts int
	FailedAt time.Time
	// LogRef points to the logs of the run, a URL or a file path.
	LogRef string
	Err    error
}

// FailureHook is called once per failed run.
type FailureHook func(ctx context.Context, f Failure)

// DAG is a linear chain of tasks with retry and alert settings.
type DAG struct {
	ID         string
	Owner      string
	Tasks      []Task
	Retries    int
	RetryDelay time.Duration
	LogRef     string
	OnFailure  FailureHook

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

// Option configures a DAG.
type Option func(*DAG)

// OptOwner sets the owner that is reported in alerts.
func OptOwner(s string) Option {
	return func(d *DAG) {
		d.Owner = s
	}
}

// OptRetries sets the number of retries after the first failed attempt.
// Negative values are ignored.
func OptRetries(i int) Option {
	return func(d *DAG) {
		if i >= 0 {
			d.Retries = i
		}
	}
}

// OptRetryDelay sets the fixed delay between attempts of a task.
func OptRetryDelay(t time.Duration) Option {
	return func(d *DAG) {
		if t >= 0 {
			d.RetryDelay = t
		}
	}
}

// OptLogRef sets the reference to logs that is passed to the failure hook.
func OptLogRef(s string) Option {
	return func(d *DAG) {
		d.LogRef = s
	}
}

// OptOnFailure sets the failure hook.
func OptOnFailure(fn FailureHook) Option {
	return func(d *DAG) {
		d.OnFailure = fn
	}
}

// OptWait replaces the function used to sleep between attempts.
func OptWait(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *DAG) {
		d.wait = fn
	}
}

// OptNow replaces the clock.
func OptNow(fn func() time.Time) Option {
	return func(d *DAG) {
		d.now = fn
	}
}

// New creates a DAG with the given tasks.
func New(id string, tasks []Task, opts ...Option) *DAG {
	res := &DAG{
		ID:    id,
		Tasks: tasks,
		now:   time.Now,
		wait:  sleep,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Run executes tasks in order and returns the id of the run. A task that
// fails all its attempts stops the chain, the failure hook is called and
// TaskFailedError is returned. Cancelling the context stops the run
// without calling the hook.
func (d *DAG) Run(ctx context.Context) (string, error) {
	runID := uuid.NewString()
	slog.Info("DAG run started", "dag", d.ID, "run", runID, "tasks", len(d.Tasks))
	start := d.now()

	for _, task := range d.Tasks {
		attempts, err := d.runTask(ctx, runID, task)
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			slog.Warn("DAG run cancelled", "dag", d.ID, "run", runID, "task", task.ID)
			return runID, TaskFailedError(d.ID, task.ID, attempts, err)
		}

		f := Failure{
			DagID:    d.ID,
			TaskID:   task.ID,
			RunID:    runID,
			Owner:    d.Owner,
			Attempts: attempts,
			FailedAt: d.now(),
			LogRef:   d.LogRef,
			Err:      err,
		}
		slog.Error("Task failed",
			"dag", d.ID, "run", runID, "task", task.ID,
			"attempts", attempts, "error", err,
		)
		if d.OnFailure != nil {
			d.OnFailure(ctx, f)
		}
		return runID, TaskFailedError(d.ID, task.ID, attempts, err)
	}

	slog.Info("DAG run finished",
		"dag", d.ID, "run", runID, "duration", d.now().Sub(start).String())
	return runID, nil
}

// runTask runs one task with retries and returns the number of attempts.
func (d *DAG) runTask(
	ctx context.Context,
	runID string,
	task Task,
) (int, error) {
	var err error
	attempts := d.Retries + 1
	for i := 1; i <= attempts; i++ {
		slog.Info("Task started",
			"dag", d.ID, "run", runID, "task", task.ID, "attempt", i)

		if err = task.Run(ctx); err == nil {
			slog.Info("Task succeeded", "dag", d.ID, "run", runID, "task", task.ID)
			return i, nil
		}
		if cerr := ctx.Err(); cerr != nil {
			if !errors.Is(err, cerr) {
				err = errors.Join(err, cerr)
			}
			return i, err
		}

		if i == attempts {
			return i, err
		}

		slog.Warn("Task attempt failed, retrying",
			"dag", d.ID, "run", runID, "task", task.ID,
			"attempt", i, "retry_in", d.RetryDelay.String(), "error", err,
		)
		if werr := d.wait(ctx, d.RetryDelay); werr != nil {
			return i, errors.Join(err, werr)
		}
	}
	return attempts, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
