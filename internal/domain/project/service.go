package project

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// Service orchestrates project CRUD and storage cleanup.
type Service struct {
	repo    Repository
	storage Storage
	log     zerolog.Logger
}

func NewService(repo Repository, storage Storage, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		log:     log.With().Str("component", "project-service").Logger(),
	}
}

// Create registers a new project. The ID is caller supplied and must be unique.
func (s *Service) Create(ctx context.Context, p *Project) (*Project, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"project id is required",
			nil,
			"3f2b8c1d-9e4a-4b7c-8d2e-1a5f6c7b8d9e",
		)
	}
	if strings.TrimSpace(p.CRS.Proj4) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"crs proj4 string is required",
			nil,
			"5a7c9e2b-3d1f-4a8b-9c6d-2e4f5a6b7c8d",
		)
	}

	exists, err := s.repo.Exists(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict,
			"project already exists",
			nil,
			"6b8d0f3c-4e2a-4c9d-8e7f-3a5b6c7d8e9f",
		)
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", p.ID).Msg("project created")
	return p, nil
}

// Get returns a single project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

// Update applies a partial metadata update to an existing project.
func (s *Service) Update(ctx context.Context, id string, update Update) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Client != nil {
		p.Client = *update.Client
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Date != nil {
		p.Date = update.Date
	}
	if update.Tags != nil {
		p.Tags = update.Tags
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", id).Msg("project updated")
	return p, nil
}

// Save persists changes the pipeline made to a project (location, point count, URLs).
func (s *Service) Save(ctx context.Context, p *Project) error {
	return s.repo.Update(ctx, p)
}

// Delete removes the project record and every stored object under its prefix.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Storage cleanup failures are logged but do not resurrect the record.
	if err := s.storage.DeletePrefix(ctx, id+"/"); err != nil {
		s.log.Error().Err(err).Str("project_id", id).Msg("failed to delete stored objects")
	}

	s.log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}
