package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.GET("/projects", r.handlers.Projects.List)
	group.POST("/projects", r.handlers.Projects.Create)
	group.GET("/projects/:id", r.handlers.Projects.Get)
	group.PUT("/projects/:id", r.handlers.Projects.Update)
	group.DELETE("/projects/:id", r.handlers.Projects.Delete)

	group.POST("/projects/:id/process", r.handlers.Jobs.Process)
	group.GET("/projects/:id/jobs", r.handlers.Jobs.ListByProject)
	group.GET("/jobs/:id", r.handlers.Jobs.Get)
}
