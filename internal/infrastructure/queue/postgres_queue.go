package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/infrastructure/database/entities"
)

// PostgresQueue implements TaskQueue over the jobs table.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed job queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

// Claim selects the oldest pending job with FOR UPDATE SKIP LOCKED and
// marks it processing inside the same transaction, so concurrent workers
// never pick up the same job.
func (q *PostgresQueue) Claim(ctx context.Context) (*Task, error) {
	var entity entities.Job

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Raw("SELECT * FROM jobs WHERE status = ? ORDER BY created_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED",
				job.StatusPending.String()).
			Scan(&entity).Error
		if err != nil {
			return fmt.Errorf("select pending job: %w", err)
		}
		if entity.ID == "" {
			return nil // No jobs available
		}

		now := time.Now()
		return tx.Model(&entities.Job{}).
			Where("id = ?", entity.ID).
			Updates(map[string]interface{}{
				"status":           job.StatusProcessing.String(),
				"progress_message": "Processing started",
				"updated_at":       now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}

	if entity.ID == "" {
		return nil, nil
	}

	q.log.Debug().Str("job_id", entity.ID).Msg("claimed job")

	return &Task{
		JobID:      entity.ID,
		ProjectID:  entity.ProjectID,
		SourcePath: entity.SourcePath,
		SourceKey:  entity.SourceKey,
		QueuedAt:   entity.CreatedAt,
	}, nil
}

// MarkCompleted updates the job status to completed.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, jobID string) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":           job.StatusCompleted.String(),
			"progress_message": "Processing completed successfully",
			"completed_at":     now,
			"updated_at":       now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// MarkFailed updates the job status to failed.
func (q *PostgresQueue) MarkFailed(ctx context.Context, jobID string, taskErr error) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":           job.StatusFailed.String(),
			"error_message":    taskErr.Error(),
			"progress_message": "Processing failed",
			"completed_at":     now,
			"updated_at":       now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}
	return nil
}

// Depth returns the number of pending jobs.
func (q *PostgresQueue) Depth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("status = ?", job.StatusPending.String()).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("get queue depth: %w", err)
	}
	return count, nil
}
