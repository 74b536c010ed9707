package job

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/infrastructure/database/entities"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// Repository handles job persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, j *domain.Job) error {
	entity := mapDomain(j)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create job",
			err,
			"d0e1f2a3-4b5c-4d6e-7f8a-9b0c1d2e3f4a",
		)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var entity entities.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"job not found",
				err,
				"e1f2a3b4-5c6d-4e7f-8a9b-0c1d2e3f4a5b",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get job by id",
			err,
			"f2a3b4c5-6d7e-4f8a-9b0c-1d2e3f4a5b6c",
		)
	}
	obj := mapEntity(entity)
	return &obj, nil
}

func (r *Repository) ListByProject(ctx context.Context, projectID string) ([]*domain.Job, error) {
	var rows []entities.Job
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list jobs by project",
			err,
			"a3b4c5d6-7e8f-4a9b-0c1d-2e3f4a5b6c7d",
		)
	}
	jobs := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		obj := mapEntity(row)
		jobs = append(jobs, &obj)
	}
	return jobs, nil
}

func (r *Repository) UpdateProgress(ctx context.Context, id string, step domain.Step, message string) error {
	result := r.db.WithContext(ctx).Model(&entities.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_step":     step.String(),
			"progress_message": message,
			"updated_at":       time.Now(),
		})
	return r.checkUpdate(ctx, result, "failed to update job progress", "b4c5d6e7-8f9a-4b0c-1d2e-3f4a5b6c7d8e")
}

func (r *Repository) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           domain.StatusCompleted.String(),
			"progress_message": "Processing completed successfully",
			"completed_at":     now,
			"updated_at":       now,
		})
	return r.checkUpdate(ctx, result, "failed to mark job completed", "c5d6e7f8-9a0b-4c1d-2e3f-4a5b6c7d8e9f")
}

func (r *Repository) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           domain.StatusFailed.String(),
			"error_message":    errorMessage,
			"progress_message": "Processing failed",
			"completed_at":     now,
			"updated_at":       now,
		})
	return r.checkUpdate(ctx, result, "failed to mark job failed", "d6e7f8a9-0b1c-4d2e-3f4a-5b6c7d8e9f0a")
}

func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entities.Job{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete old jobs",
			result.Error,
			"e7f8a9b0-1c2d-4e3f-4a5b-6c7d8e9f0a1b",
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) checkUpdate(ctx context.Context, result *gorm.DB, message, uuid string) error {
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			message,
			result.Error,
			uuid,
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"job not found",
			nil,
			uuid,
		)
	}
	return nil
}

func mapEntity(entity entities.Job) domain.Job {
	return domain.Job{
		ID:              entity.ID,
		ProjectID:       entity.ProjectID,
		Status:          domain.Status(entity.Status),
		CurrentStep:     domain.Step(entity.CurrentStep),
		ProgressMessage: entity.ProgressMessage,
		ErrorMessage:    entity.ErrorMessage,
		SourcePath:      entity.SourcePath,
		SourceKey:       entity.SourceKey,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
		CompletedAt:     entity.CompletedAt,
	}
}

func mapDomain(j *domain.Job) entities.Job {
	return entities.Job{
		ID:              j.ID,
		ProjectID:       j.ProjectID,
		Status:          j.Status.String(),
		CurrentStep:     j.CurrentStep.String(),
		ProgressMessage: j.ProgressMessage,
		ErrorMessage:    j.ErrorMessage,
		SourcePath:      j.SourcePath,
		SourceKey:       j.SourceKey,
		CompletedAt:     j.CompletedAt,
	}
}
