package job

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
	"github.com/lidarhub/potree-api/utils/jobid"
)

// Service orchestrates job bookkeeping around the conversion pipeline.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "job-service").Logger(),
	}
}

// Create records a new pending job. The caller may pre-assign the ID so
// upload artifacts can be keyed off it; otherwise one is generated.
func (s *Service) Create(ctx context.Context, j *Job) error {
	if j.ID == "" {
		j.ID = jobid.New()
	}
	if j.Status == "" {
		j.Status = StatusPending
	}
	if j.ProgressMessage == "" {
		j.ProgressMessage = "Queued for processing"
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return err
	}
	s.log.Info().Str("job_id", j.ID).Str("project_id", j.ProjectID).Msg("job created")
	return nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	if !jobid.IsValid(id) {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"invalid job id",
			nil,
			"8d41c9b2-0f6a-4e3d-9c5b-7a1e2f3d4c5b",
		)
	}
	return s.repo.GetByID(ctx, id)
}

// ListByProject returns all jobs for a project, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*Job, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// UpdateProgress records the current pipeline step for a running job.
func (s *Service) UpdateProgress(ctx context.Context, id string, step Step, message string) error {
	return s.repo.UpdateProgress(ctx, id, step, message)
}

// MarkCompleted transitions a job to its successful terminal state.
func (s *Service) MarkCompleted(ctx context.Context, id string) error {
	return s.repo.MarkCompleted(ctx, id)
}

// MarkFailed transitions a job to failed and preserves the error message.
func (s *Service) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	return s.repo.MarkFailed(ctx, id, errorMessage)
}

// Cleanup deletes job records older than the retention window.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("cleaned up old jobs")
	}
	return deleted, nil
}
