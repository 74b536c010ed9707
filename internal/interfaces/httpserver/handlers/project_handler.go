package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/requests"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/responses"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// ProjectHandler exposes project CRUD endpoints.
type ProjectHandler struct {
	cfg     *config.Config
	service *project.Service
	log     zerolog.Logger
}

func NewProjectHandler(cfg *config.Config, service *project.Service, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "project-handler").Logger(),
	}
}

// List godoc
// @Summary      List projects
// @Description  Returns all survey projects.
// @Tags         projects
// @Produce      json
// @Success      200  {array}  project.Project
// @Security     ApiKeyAuth
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create godoc
// @Summary      Create project
// @Description  Registers a new survey project with its coordinate reference system.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateProjectRequest  true  "Project definition"
// @Success      201      {object}  project.Project
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req requests.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(),
			"b7e2f1a0-3c4d-4e5f-8a9b-0c1d2e3f4a5b")
		return
	}

	p, err := req.ToDomain()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(),
			"c8f3a2b1-4d5e-4f6a-9b0c-1d2e3f4a5b6c")
		return
	}

	created, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		responses.HandleError(c, err, "failed to create project")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  project.Project
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary      Update project metadata
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Project ID"
// @Param        request  body      requests.UpdateProjectRequest  true  "Fields to update"
// @Success      200      {object}  project.Project
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req requests.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(),
			"d9a4b3c2-5e6f-4a7b-8c1d-2e3f4a5b6c7d")
		return
	}

	update, err := req.ToUpdate()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(),
			"e0b5c4d3-6f7a-4b8c-9d2e-3f4a5b6c7d8e")
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		responses.HandleError(c, err, "failed to update project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary      Delete project
// @Description  Removes the project record and all stored point cloud artifacts.
// @Tags         projects
// @Param        id  path  string  true  "Project ID"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}
