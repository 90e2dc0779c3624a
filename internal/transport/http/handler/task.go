package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskUsecase *usecase.TaskUsecase
	logger      *slog.Logger
}

func NewTaskHandler(taskUsecase *usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase, logger: logger.With("component", "task_handler")}
}

type taskRequest struct {
	ProjectID   string  `json:"project_id"`
	Title       *string `json:"title"       binding:"omitempty,max=200"`
	Description *string `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

func (r taskRequest) input() (usecase.TaskInput, error) {
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return usecase.TaskInput{}, err
	}
	return usecase.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		AssigneeID:  r.AssigneeID,
		Status:      r.Status,
		DueDate:     due,
	}, nil
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, h.logger, "create task", err)
		return
	}

	task, err := h.taskUsecase.Create(c.Request.Context(), middleware.Actor(c), req.ProjectID, in)
	if err != nil {
		respondError(c, h.logger, "create task", err)
		return
	}
	c.JSON(http.StatusCreated, toTask(task))
}

// GET /projects/:id/tasks
func (h *TaskHandler) ListByProject(c *gin.Context) {
	tasks, err := h.taskUsecase.ListByProject(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(tasks, toTask))
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.taskUsecase.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get task", err)
		return
	}
	c.JSON(http.StatusOK, toTask(task))
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, h.logger, "update task", err)
		return
	}

	task, err := h.taskUsecase.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "update task", err)
		return
	}
	c.JSON(http.StatusOK, toTask(task))
}

// PATCH /tasks/:id/status
func (h *TaskHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskUsecase.SetStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, "set task status", err)
		return
	}
	c.JSON(http.StatusOK, toTask(task))
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskUsecase.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
