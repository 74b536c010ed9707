package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/pipeline"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/responses"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// JobHandler exposes upload and job status endpoints.
type JobHandler struct {
	cfg      *config.Config
	pipeline *pipeline.Service
	jobs     *job.Service
	log      zerolog.Logger
}

func NewJobHandler(cfg *config.Config, pipelineService *pipeline.Service, jobService *job.Service, log zerolog.Logger) *JobHandler {
	return &JobHandler{
		cfg:      cfg,
		pipeline: pipelineService,
		jobs:     jobService,
		log:      log.With().Str("component", "job-handler").Logger(),
	}
}

// Process godoc
// @Summary      Upload a point cloud for conversion
// @Description  Accepts a LAS/LAZ file and queues it for Potree octree conversion.
// @Tags         jobs
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Project ID"
// @Param        file  formData  file    true  "LAS or LAZ point cloud"
// @Success      202   {object}  responses.AcceptedResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Failure      413   {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects/{id}/process [post]
func (h *JobHandler) Process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "upload exceeds maximum allowed size",
			})
			return
		}
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"multipart form must include a \"file\" field",
			"a1b2c3d4-7e8f-4a9b-8c0d-1e2f3a4b5c6d")
		return
	}
	defer file.Close()

	jb, err := h.pipeline.Submit(c.Request.Context(), c.Param("id"), header.Filename, file, header.Size)
	if err != nil {
		responses.HandleError(c, err, "failed to accept upload")
		return
	}

	c.JSON(http.StatusAccepted, responses.AcceptedResponse{
		JobID:  jb.ID,
		Status: string(jb.Status),
	})
}

// Get godoc
// @Summary      Get job status
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  responses.JobResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	jb, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get job")
		return
	}
	c.JSON(http.StatusOK, responses.BuildJobResponse(jb))
}

// ListByProject godoc
// @Summary      List jobs for a project
// @Tags         jobs
// @Produce      json
// @Param        id   path     string  true  "Project ID"
// @Success      200  {array}  responses.JobResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects/{id}/jobs [get]
func (h *JobHandler) ListByProject(c *gin.Context) {
	jobs, err := h.jobs.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, responses.BuildJobListResponse(jobs))
}
