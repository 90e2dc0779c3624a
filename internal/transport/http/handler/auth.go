package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	VerifyTwoFactor(ctx context.Context, userID, code string) (*domain.LoginResult, error)
	EnableTwoFactor(ctx context.Context, actor *domain.User, targetID string) (*domain.User, bool, error)
	DisableTwoFactor(ctx context.Context, actor *domain.User, targetID string) (*domain.User, bool, error)
	VerifyEmail(ctx context.Context, raw string) (*domain.User, bool, error)
	ResendVerification(ctx context.Context, email string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required,max=120"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// POST /auth/register
// The token is omitted when the deployment requires email verification.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}

	body := gin.H{"message": "User registered successfully", "user": toUser(res.User)}
	if res.Token != "" {
		body["token"] = res.Token
	} else {
		body["message"] = "User registered. Check your email to verify your account"
	}
	c.JSON(http.StatusCreated, body)
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
// Returns {token, user}, or {message, user_id, two_factor_enabled} when a
// second factor is pending.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	if res.TwoFactorRequired {
		c.JSON(http.StatusOK, gin.H{
			"message":            "2FA code sent to your email",
			"user_id":            res.User.ID,
			"two_factor_enabled": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "user": toUser(res.User)})
}

type verifyTwoFactorRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Code   string `json:"code"    binding:"required"`
}

// POST /auth/verify-2fa
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req verifyTwoFactorRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUsecase.VerifyTwoFactor(c.Request.Context(), req.UserID, req.Code)
	if err != nil {
		respondError(c, h.logger, "verify 2fa", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "user": toUser(res.User)})
}

type toggleTwoFactorRequest struct {
	UserID string `json:"user_id"`
}

// POST /auth/enable-2fa
// user_id is optional and defaults to the caller; only admins may name someone else.
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	h.toggle(c, "enable 2fa", h.authUsecase.EnableTwoFactor, "2FA enabled", "2FA already enabled")
}

// POST /auth/disable-2fa
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	h.toggle(c, "disable 2fa", h.authUsecase.DisableTwoFactor, "2FA disabled", "2FA already disabled")
}

type toggleFunc func(ctx context.Context, actor *domain.User, targetID string) (*domain.User, bool, error)

func (h *AuthHandler) toggle(c *gin.Context, op string, fn toggleFunc, changedMsg, unchangedMsg string) {
	var req toggleTwoFactorRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	user, changed, err := fn(c.Request.Context(), middleware.Actor(c), req.UserID)
	if err != nil {
		respondError(c, h.logger, op, err)
		return
	}

	msg := changedMsg
	if !changed {
		msg = unchangedMsg
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "user": toUser(user)})
}

// GET /auth/verify-email?token=<raw>
// A second use of the same token succeeds with an "already verified" message.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	user, already, err := h.authUsecase.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondError(c, h.logger, "verify email", err)
		return
	}

	msg := "Email verified successfully"
	if already {
		msg = "Email already verified"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "user": toUser(user)})
}

type resendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// POST /auth/resend-verification
// Always 200 so the endpoint does not reveal whether the email exists.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req resendVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUsecase.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "resend verification", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists and is unverified, a new link has been sent"})
}
