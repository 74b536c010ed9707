package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/infrastructure/queue"
)

// Executor runs a claimed conversion task to completion.
type Executor interface {
	Execute(ctx context.Context, task *queue.Task) error
}

// Pool manages the background conversion workers plus the retention
// sweeper that prunes old job records.
type Pool struct {
	workers     []*Worker
	queue       queue.TaskQueue
	executor    Executor
	jobs        *job.Service
	workerCount int
	pollEvery   time.Duration
	taskTimeout time.Duration
	retention   time.Duration
	sweepEvery  time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount     int
	PollInterval    time.Duration
	TaskTimeout     time.Duration
	JobRetention    time.Duration
	CleanupInterval time.Duration
}

// NewPool creates a new worker pool.
func NewPool(
	queue queue.TaskQueue,
	executor Executor,
	jobs *job.Service,
	cfg Config,
	log zerolog.Logger,
) *Pool {
	return &Pool{
		queue:       queue,
		executor:    executor,
		jobs:        jobs,
		workerCount: cfg.WorkerCount,
		pollEvery:   cfg.PollInterval,
		taskTimeout: cfg.TaskTimeout,
		retention:   cfg.JobRetention,
		sweepEvery:  cfg.CleanupInterval,
		log:         log.With().Str("component", "worker-pool").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Start initializes and starts all workers and the retention sweeper.
func (p *Pool) Start(ctx context.Context) error {
	p.log.Info().Int("worker_count", p.workerCount).Msg("starting worker pool")

	p.workers = make([]*Worker, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		worker := NewWorker(
			i+1,
			p.queue,
			p.executor,
			p.pollEvery,
			p.taskTimeout,
			p.log,
		)
		p.workers[i] = worker

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(worker)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runSweeper(ctx)
	}()

	p.log.Info().Msg("worker pool started")

	return nil
}

// Stop gracefully shuts down all workers.
func (p *Pool) Stop() {
	p.log.Info().Msg("stopping worker pool")

	close(p.stopChan)
	for _, worker := range p.workers {
		worker.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all workers stopped gracefully")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("worker pool shutdown timed out")
	}
}

// runSweeper prunes terminal jobs past the retention window, once at
// startup and then on every cleanup interval.
func (p *Pool) runSweeper(ctx context.Context) {
	p.sweep(ctx)

	ticker := time.NewTicker(p.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *Pool) sweep(ctx context.Context) {
	if _, err := p.jobs.Cleanup(ctx, p.retention); err != nil {
		p.log.Error().Err(err).Msg("job retention sweep failed")
	}
}
