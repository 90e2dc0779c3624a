package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberUsecase *usecase.MemberUsecase
	logger        *slog.Logger
}

func NewMemberHandler(memberUsecase *usecase.MemberUsecase, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{memberUsecase: memberUsecase, logger: logger.With("component", "member_handler")}
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"  binding:"omitempty,oneof=collaborator viewer"`
}

// POST /members/projects/:id/invite (owner or Admin)
func (h *MemberHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.memberUsecase.Invite(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Email, req.Role)
	if err != nil {
		respondError(c, h.logger, "invite member", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invitation sent", "member": toMember(m)})
}

type removeMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// DELETE /members/projects/:id/remove (owner or Admin)
func (h *MemberHandler) Remove(c *gin.Context) {
	var req removeMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.memberUsecase.Remove(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.UserID); err != nil {
		respondError(c, h.logger, "remove member", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

type respondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// POST /members/projects/:id/respond (invitee)
func (h *MemberHandler) Respond(c *gin.Context) {
	var req respondRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.memberUsecase.Respond(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Action)
	if err != nil {
		respondError(c, h.logger, "respond to invitation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation " + string(m.Status), "member": toMember(m)})
}
