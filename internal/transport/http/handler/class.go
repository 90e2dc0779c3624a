package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	classUsecase *usecase.ClassUsecase
	logger       *slog.Logger
}

func NewClassHandler(classUsecase *usecase.ClassUsecase, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{classUsecase: classUsecase, logger: logger.With("component", "class_handler")}
}

type classRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// POST /classes (Admin)
func (h *ClassHandler) Create(c *gin.Context) {
	var req classRequest
	if !bindJSON(c, &req) {
		return
	}

	class, err := h.classUsecase.Create(c.Request.Context(), middleware.Actor(c), req.Name)
	if err != nil {
		respondError(c, h.logger, "create class", err)
		return
	}
	c.JSON(http.StatusCreated, toClass(class))
}

// GET /classes
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classUsecase.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list classes", err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(classes, toClass))
}

// GET /classes/:id
func (h *ClassHandler) GetByID(c *gin.Context) {
	class, err := h.classUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get class", err)
		return
	}
	c.JSON(http.StatusOK, toClass(class))
}

// PUT /classes/:id (Admin)
func (h *ClassHandler) Update(c *gin.Context) {
	var req classRequest
	if !bindJSON(c, &req) {
		return
	}

	class, err := h.classUsecase.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, h.logger, "update class", err)
		return
	}
	c.JSON(http.StatusOK, toClass(class))
}

// DELETE /classes/:id (Admin)
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.classUsecase.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete class", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class deleted successfully"})
}

// GET /classes/:id/students
func (h *ClassHandler) Students(c *gin.Context) {
	students, err := h.classUsecase.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list class students", err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(students, toUser))
}

// POST /classes/:id/join (Student)
func (h *ClassHandler) Join(c *gin.Context) {
	class, err := h.classUsecase.Join(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "join class", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined class " + class.Name, "class": toClass(class)})
}
