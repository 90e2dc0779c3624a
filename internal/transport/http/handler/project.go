package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUsecase *usecase.ProjectUsecase
	logger         *slog.Logger
}

func NewProjectHandler(projectUsecase *usecase.ProjectUsecase, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projectUsecase: projectUsecase, logger: logger.With("component", "project_handler")}
}

type projectRequest struct {
	Name        *string  `json:"name"        binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	GithubLink  *string  `json:"github_link" binding:"omitempty,url"`
	Tags        []string `json:"tags"        binding:"omitempty,max=20,dive,max=50"`
	Status      *string  `json:"status"`
}

func (r projectRequest) input() usecase.ProjectInput {
	return usecase.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		GithubLink:  r.GithubLink,
		Tags:        r.Tags,
		Status:      r.Status,
	}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectUsecase.Create(c.Request.Context(), middleware.Actor(c), req.input())
	if err != nil {
		respondError(c, h.logger, "create project", err)
		return
	}
	c.JSON(http.StatusCreated, toProject(project))
}

// GET /projects?track=&page=&per_page=
func (h *ProjectHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	res, err := h.projectUsecase.List(c.Request.Context(), middleware.Actor(c), c.Query("track"), page)
	if err != nil {
		respondError(c, h.logger, "list projects", err)
		return
	}
	c.JSON(http.StatusOK, toPage(res, toProject))
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.projectUsecase.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get project", err)
		return
	}
	c.JSON(http.StatusOK, toProject(project))
}

// PUT /projects/:id (owner or Admin)
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectUsecase.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, "update project", err)
		return
	}
	c.JSON(http.StatusOK, toProject(project))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /projects/:id/status (owner or Admin)
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectUsecase.SetStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, "set project status", err)
		return
	}
	c.JSON(http.StatusOK, toProject(project))
}

// DELETE /projects/:id (owner or Admin)
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectUsecase.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
