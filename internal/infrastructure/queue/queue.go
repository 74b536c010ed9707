package queue

import (
	"context"
	"time"
)

// Task represents a claimed conversion job ready for processing.
type Task struct {
	JobID      string
	ProjectID  string
	SourcePath string
	SourceKey  string
	QueuedAt   time.Time
}

// TaskQueue defines the interface for job queue operations.
type TaskQueue interface {
	// Claim atomically fetches the oldest pending job and flips it to
	// processing. Returns nil when no work is available.
	Claim(ctx context.Context) (*Task, error)

	// MarkCompleted updates job status to completed
	MarkCompleted(ctx context.Context, jobID string) error

	// MarkFailed updates job status to failed
	MarkFailed(ctx context.Context, jobID string, err error) error

	// Depth returns the number of pending jobs
	Depth(ctx context.Context) (int64, error)
}
