package handlers

import (
	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/pipeline"
	"github.com/lidarhub/potree-api/internal/domain/project"
)

// Provider wires HTTP handlers.
type Provider struct {
	Projects *ProjectHandler
	Jobs     *JobHandler
}

func NewProvider(
	cfg *config.Config,
	projectService *project.Service,
	jobService *job.Service,
	pipelineService *pipeline.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Projects: NewProjectHandler(cfg, projectService, log),
		Jobs:     NewJobHandler(cfg, pipelineService, jobService, log),
	}
}
