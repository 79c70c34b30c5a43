// internal/followup/dispatcher.go
package followup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/metrics"
	"renaissance-story/internal/models"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusPanicked  = "panicked"
)

// Task is one best-effort side effect of a stored submission.
type Task interface {
	Name() string
	Run(ctx context.Context, record *models.SubmissionRecord) error
}

type taskFunc struct {
	name string
	fn   func(context.Context, *models.SubmissionRecord) error
}

func (t taskFunc) Name() string { return t.name }

func (t taskFunc) Run(ctx context.Context, record *models.SubmissionRecord) error {
	return t.fn(ctx, record)
}

// NewTask adapts a worker's Execute into a Task.
func NewTask(name string, fn func(context.Context, *models.SubmissionRecord) error) Task {
	return taskFunc{name: name, fn: fn}
}

// Dispatcher runs every task for a record in its own goroutine. Task
// outcomes are logged and counted but never reported to the caller.
type Dispatcher struct {
	tasks   []Task
	timeout time.Duration
	logger  logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, log logger.Logger, tasks ...Task) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		tasks:   tasks,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "followup"}),
	}
}

// Tasks returns the names of the registered tasks.
func (d *Dispatcher) Tasks() []string {
	names := make([]string, 0, len(d.tasks))
	for _, t := range d.tasks {
		names = append(names, t.Name())
	}
	return names
}

// Dispatch schedules all tasks and returns immediately. Calls after Wait
// has started are dropped.
func (d *Dispatcher) Dispatch(record *models.SubmissionRecord) {
	if d == nil || len(d.tasks) == 0 || record == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping follow-ups", map[string]interface{}{
			"submissionId": record.SubmissionID,
		})
		return
	}

	snapshot := *record
	for _, task := range d.tasks {
		d.wg.Add(1)
		go d.run(task, &snapshot)
	}
}

func (d *Dispatcher) run(task Task, record *models.SubmissionRecord) {
	defer d.wg.Done()

	metrics.FollowupsActive.Inc()
	defer metrics.FollowupsActive.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	status := statusCompleted
	fields := map[string]interface{}{
		"taskType":     task.Name(),
		"submissionId": record.SubmissionID,
	}

	defer func() {
		if r := recover(); r != nil {
			status = statusPanicked
			fields["error"] = fmt.Sprintf("%v", r)
			d.logger.Error("follow-up panicked", fields)
		}
		metrics.FollowupRunsTotal.WithLabelValues(task.Name(), status).Inc()
		metrics.FollowupDuration.WithLabelValues(task.Name()).Observe(time.Since(start).Seconds())
	}()

	if err := task.Run(ctx, record); err != nil {
		status = statusFailed
		fields["error"] = err
		d.logger.Warn("follow-up failed", fields)
		return
	}

	fields["duration"] = time.Since(start).String()
	d.logger.Debug("follow-up completed", fields)
}

// Wait stops accepting new dispatches and blocks until running tasks finish
// or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("follow-ups still running: %w", ctx.Err())
	}
}
