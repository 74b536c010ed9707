package job

import (
	"context"
	"time"
)

// Repository defines persistence operations needed by the job service.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	ListByProject(ctx context.Context, projectID string) ([]*Job, error)
	UpdateProgress(ctx context.Context, id string, step Step, message string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errorMessage string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
