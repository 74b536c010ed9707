package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/infrastructure/metrics"
	"github.com/lidarhub/potree-api/internal/infrastructure/queue"
)

// Worker claims conversion jobs from the queue and runs them.
type Worker struct {
	id          int
	queue       queue.TaskQueue
	executor    Executor
	pollEvery   time.Duration
	taskTimeout time.Duration
	log         zerolog.Logger
	stopChan    chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	queue queue.TaskQueue,
	executor Executor,
	pollEvery time.Duration,
	taskTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:          id,
		queue:       queue,
		executor:    executor,
		pollEvery:   pollEvery,
		taskTimeout: taskTimeout,
		log:         log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Start begins polling the queue for work.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextTask(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextTask(ctx context.Context) {
	task, err := w.queue.Claim(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to claim task")
		return
	}
	if task == nil {
		return
	}

	if depth, err := w.queue.Depth(ctx); err == nil {
		metrics.QueueDepth.Set(float64(depth))
	}

	w.log.Info().
		Str("job_id", task.JobID).
		Str("project_id", task.ProjectID).
		Msg("processing conversion job")

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	start := time.Now()
	if err := w.executor.Execute(taskCtx, task); err != nil {
		w.log.Error().Err(err).Str("job_id", task.JobID).Msg("job failed")
		metrics.RecordJob("failed")
		if markErr := w.queue.MarkFailed(ctx, task.JobID, err); markErr != nil {
			w.log.Error().Err(markErr).Str("job_id", task.JobID).Msg("failed to mark job as failed")
		}
		return
	}

	if err := w.queue.MarkCompleted(ctx, task.JobID); err != nil {
		w.log.Error().Err(err).Str("job_id", task.JobID).Msg("failed to mark job as completed")
		return
	}
	metrics.RecordJob("completed")

	w.log.Info().
		Str("job_id", task.JobID).
		Dur("duration", time.Since(start)).
		Msg("job completed")
}
