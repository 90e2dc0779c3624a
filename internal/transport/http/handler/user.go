package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUsecase *usecase.UserUsecase
	logger      *slog.Logger
}

func NewUserHandler(userUsecase *usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	Name     string `json:"name"     binding:"required,max=120"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
	Role     string `json:"role"`
}

// POST /users (Admin)
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUsecase.Create(c.Request.Context(), middleware.Actor(c), usecase.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.logger, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, toUser(user))
}

// GET /users (Admin)
func (h *UserHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	res, err := h.userUsecase.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, toPage(res, toUser))
}

// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, toUser(middleware.Actor(c)))
}

// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userUsecase.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

type updateUserRequest struct {
	Name     *string `json:"name"     binding:"omitempty,max=120"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,max=72"`
	Role     *string `json:"role"`
}

// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.logger, "update user", err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userUsecase.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
