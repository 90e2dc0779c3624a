package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityUsecase *usecase.ActivityUsecase
	logger          *slog.Logger
}

func NewActivityHandler(activityUsecase *usecase.ActivityUsecase, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{activityUsecase: activityUsecase, logger: logger.With("component", "activity_handler")}
}

// GET /activities (Admin), newest first
func (h *ActivityHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	res, err := h.activityUsecase.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, "list activities", err)
		return
	}
	c.JSON(http.StatusOK, toPage(res, toActivity))
}
